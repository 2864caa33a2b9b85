// Package notify carries user-visible failure notifications (the terminal
// counterpart of a dismissible toast).
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
)

type Notifier interface {
	Notify(ctx context.Context, err error)
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, err error)

func (f Func) Notify(ctx context.Context, err error) { f(ctx, err) }

// Nop drops every notification.
func Nop() Notifier { return Func(func(context.Context, error) {}) }

// Writer prints one "! <error>" line per notification.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (n *Writer) Notify(_ context.Context, err error) {
	if err == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "! %v\n", err)
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu   sync.Mutex
	errs []error
}

func (r *Recorder) Notify(_ context.Context, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *Recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}
