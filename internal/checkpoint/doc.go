// Package checkpoint implements cooperative yield points for long-running
// parse phases.
//
// A Checkpoint is ticked once per processed record. Every N ticks it checks the
// context for cancellation, yields the processor to other goroutines and reports
// progress to an optional callback. Progress reports are rate limited so that a
// callback doing UI work is not flooded on multi-million entity files.
package checkpoint
