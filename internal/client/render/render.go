// Package render is the client's minimal view model: views write themselves
// to a writer, and side effects requested while rendering are queued on a
// Frame and run only once the render pass has finished.
package render

import (
	"io"
	"sync"
)

// View is anything that can draw itself.
type View interface {
	Render(w io.Writer) error
}

// ViewFunc adapts a function to View.
type ViewFunc func(w io.Writer) error

func (f ViewFunc) Render(w io.Writer) error {
	return f(w)
}

// Text renders a fixed string followed by a newline.
func Text(s string) View {
	return ViewFunc(func(w io.Writer) error {
		_, err := io.WriteString(w, s+"\n")
		return err
	})
}

// Empty renders nothing.
var Empty View = ViewFunc(func(io.Writer) error { return nil })

// Frame collects effects scheduled during a single render pass.
type Frame struct {
	mu      sync.Mutex
	effects []func()
}

// NewFrame starts a render pass.
func NewFrame() *Frame {
	return &Frame{}
}

// After schedules fn to run when the frame is committed.
func (f *Frame) After(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.effects = append(f.effects, fn)
}

// Pending reports how many effects are queued.
func (f *Frame) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.effects)
}

// Commit runs queued effects in scheduling order and empties the queue.
// Effects scheduled by effects run in the same commit.
func (f *Frame) Commit() {
	for {
		f.mu.Lock()
		if len(f.effects) == 0 {
			f.mu.Unlock()
			return
		}
		next := f.effects[0]
		f.effects = f.effects[1:]
		f.mu.Unlock()
		next()
	}
}

// Draw renders view into w and then commits the frame.
func Draw(w io.Writer, frame *Frame, view View) error {
	err := view.Render(w)
	frame.Commit()
	return err
}
