package diag

import (
	"context"
	"sync"
)

// Source identifies the object in which a failure occurred.
type Source interface {
	// TypeName returns the name of the object's type.
	TypeName() string
	// Name returns the instance name (may be empty).
	Name() string
}

// SourceName formats a Source for reports and error messages.
func SourceName(src Source) string {
	if src == nil {
		return ""
	}
	if n := src.Name(); n != "" {
		return src.TypeName() + " " + n
	}
	return src.TypeName()
}

// Reporter receives failure reports. It is a diagnostic sink only.
type Reporter interface {
	Report(src Source, kind Kind, description string)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(src Source, kind Kind, description string)

// Report calls f.
func (f ReporterFunc) Report(src Source, kind Kind, description string) { f(src, kind, description) }

// Discard is a Reporter that drops every report.
var Discard Reporter = ReporterFunc(func(Source, Kind, string) {})

// ReportError pushes err to r, classifying it with KindOf. It is a no-op for
// a nil error or a nil Reporter.
func ReportError(r Reporter, src Source, err error) {
	if r == nil || err == nil {
		return
	}
	r.Report(src, KindOf(err), err.Error())
}

// Latch keeps the most recent report. It replaces a process-wide error
// state: create one, hand it to the objects that should report into it and
// Clear it between operations.
type Latch struct {
	mu          sync.Mutex
	source      string
	kind        Kind
	description string
	logger      *Logger
}

// NewLatch creates an empty Latch. If a logger is given, every report is
// also logged at warn level.
func NewLatch(logger ...*Logger) *Latch {
	l := &Latch{}
	if len(logger) > 0 {
		l.logger = logger[0]
	}
	return l
}

// Report records a failure, replacing any previous one.
func (l *Latch) Report(src Source, kind Kind, description string) {
	l.mu.Lock()
	l.source = SourceName(src)
	l.kind = kind
	l.description = description
	l.mu.Unlock()

	if l.logger != nil {
		l.logger.WarnContext(context.Background(), "operation failed",
			"source", SourceName(src),
			"kind", kind.String(),
			"description", description,
		)
	}
}

// Clear resets the latch: empty source and description, KindOK.
func (l *Latch) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.source = ""
	l.kind = KindOK
	l.description = ""
}

// Source returns the source of the last report.
func (l *Latch) Source() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.source
}

// Kind returns the kind of the last report.
func (l *Latch) Kind() Kind {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kind
}

// Description returns the description of the last report.
func (l *Latch) Description() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.description
}
