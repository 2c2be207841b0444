package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Interrupt is the cancellation cause of a SignalContext stopped by a signal.
type Interrupt struct {
	Signal os.Signal
}

func (i Interrupt) Error() string {
	return "interrupted by " + i.Signal.String()
}

// Is lets errors.Is(err, context.Canceled) hold for an interrupted errand.
func (i Interrupt) Is(target error) bool {
	return target == context.Canceled
}

// ExitCode follows the shell convention of 128 plus the signal number.
func (i Interrupt) ExitCode() int {
	if s, ok := i.Signal.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 1
}

// SignalContext is cancelled when one of its signals arrives. The signal is
// kept as the context's cause.
type SignalContext struct {
	context.Context
	cancel context.CancelCauseFunc
	ch     chan os.Signal
	stop   sync.Once
}

// NewSignalContext watches sigs, or SIGINT and SIGTERM when none are given.
func NewSignalContext(parent context.Context, sigs ...os.Signal) *SignalContext {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	return watchSignals(parent, ch)
}

func watchSignals(parent context.Context, ch chan os.Signal) *SignalContext {
	ctx, cancel := context.WithCancelCause(parent)
	sc := &SignalContext{Context: ctx, cancel: cancel, ch: ch}
	go func() {
		select {
		case sig := <-ch:
			cancel(Interrupt{Signal: sig})
		case <-ctx.Done():
		}
		sc.Stop()
	}()
	return sc
}

// Stop cancels the context and stops signal delivery. Safe to call repeatedly.
func (sc *SignalContext) Stop() {
	sc.stop.Do(func() {
		signal.Stop(sc.ch)
		sc.cancel(context.Canceled)
	})
}

// Interrupted returns the signal that cancelled the context, if any.
func (sc *SignalContext) Interrupted() (Interrupt, bool) {
	var in Interrupt
	ok := errors.As(context.Cause(sc.Context), &in)
	return in, ok
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	if in, ok := sc.Interrupted(); ok {
		return in.Signal
	}
	return nil
}
