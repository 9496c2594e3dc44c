package resource

import (
	"context"
	"io"
)

// Reader throttles reads through a Controller.
type Reader struct {
	ctx context.Context //nolint:containedctx // bound to the lifetime of one transfer
	r   io.Reader
	c   *Controller
}

// NewReader wraps r. With a nil Controller reads pass through unthrottled.
func NewReader(ctx context.Context, r io.Reader, c *Controller) *Reader {
	return &Reader{ctx: ctx, r: r, c: c}
}

// Read implements io.Reader. The bytes actually read are charged.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		if werr := r.c.WaitIO(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

// Writer throttles writes through a Controller.
type Writer struct {
	ctx context.Context //nolint:containedctx // bound to the lifetime of one transfer
	w   io.Writer
	c   *Controller
}

// NewWriter wraps w. With a nil Controller writes pass through unthrottled.
func NewWriter(ctx context.Context, w io.Writer, c *Controller) *Writer {
	return &Writer{ctx: ctx, w: w, c: c}
}

// Write implements io.Writer. Bytes are charged before they are written.
func (w *Writer) Write(p []byte) (int, error) {
	if err := w.c.WaitIO(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.w.Write(p)
}
