// Package resource bounds the work the table store does at once.
//
// A Controller combines three limits:
//
//   - memory: bytes of encoded table data held while loading,
//   - workers: concurrent save and load jobs,
//   - IO: bytes per second read from or written to blob storage.
//
// Every method is safe on a nil *Controller, which imposes no limits.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   256 << 20,
//	    MaxWorkers:         4,
//	    IOLimitBytesPerSec: 64 << 20,
//	})
//	err := rc.Do(ctx, func(ctx context.Context) error { ... })
package resource
