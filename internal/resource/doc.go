// Package resource governs the memory, concurrency and IO of parse jobs.
//
// Parsing several models at once is bounded by three independent limits:
//
//   - Memory: a weighted semaphore sized in bytes; each parse reserves an
//     estimate derived from its source length before it starts
//   - Parses: the number of models parsed concurrently
//   - IO: a token bucket throttling cache blob uploads
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:    4 << 30,
//	    MaxConcurrentParses: 4,
//	})
//	if err := rc.AcquireMemory(ctx, estimate); err != nil {
//	    return err
//	}
//	defer rc.ReleaseMemory(estimate)
//
// All methods are safe for concurrent use. A nil *Controller imposes no
// limits, so callers never need nil checks.
package resource
