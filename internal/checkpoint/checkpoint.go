package checkpoint

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the number of ticks between two yield points.
const DefaultInterval = 10_000

// ProgressFunc receives the current phase and its completion in percent (0-100).
type ProgressFunc func(phase string, percent float64)

// Checkpoint tracks progress through a single phase.
// It is not safe for concurrent use; each phase owns its own Checkpoint.
type Checkpoint struct {
	ctx       context.Context
	phase     string
	total     int
	every     int
	n         int
	progress  ProgressFunc
	sometimes *rate.Sometimes
}

// New creates a checkpoint for phase. total is the expected number of ticks
// (or bytes for Advance); every <= 0 selects DefaultInterval.
func New(ctx context.Context, phase string, total, every int, progress ProgressFunc) *Checkpoint {
	if every <= 0 {
		every = DefaultInterval
	}
	return &Checkpoint{
		ctx:       ctx,
		phase:     phase,
		total:     total,
		every:     every,
		progress:  progress,
		sometimes: &rate.Sometimes{First: 1, Interval: 100 * time.Millisecond},
	}
}

// Tick records one processed record. It returns the context error if the
// caller cancelled the parse since the last yield point.
func (c *Checkpoint) Tick() error {
	c.n++
	if c.n%c.every != 0 {
		return nil
	}
	return c.yield(c.n)
}

// Advance is like Tick but reports position-based progress, e.g. the byte
// offset reached by the tokenizer.
func (c *Checkpoint) Advance(pos int) error {
	c.n++
	if c.n%c.every != 0 {
		return nil
	}
	return c.yield(pos)
}

// Count returns the number of ticks so far.
func (c *Checkpoint) Count() int {
	return c.n
}

// Done reports 100% for the phase. Unlike intermediate reports it is never throttled.
func (c *Checkpoint) Done() {
	if c.progress != nil {
		c.progress(c.phase, 100)
	}
}

func (c *Checkpoint) yield(pos int) error {
	if err := c.ctx.Err(); err != nil {
		return err
	}
	runtime.Gosched()
	if c.progress != nil {
		c.sometimes.Do(func() {
			c.progress(c.phase, percent(pos, c.total))
		})
	}
	return nil
}

func percent(pos, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(pos) / float64(total) * 100
	if p > 100 {
		return 100
	}
	return p
}
