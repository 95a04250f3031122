// Package handle provides Owned, a wrapper that takes ownership of an operating
// system resource handle and releases it exactly once.
//
// Go has no destructors, so "scope exit" is a deferred Close:
//
//	h := handle.Take(raw)
//	defer h.Close()
//
// A finalizer releases (and logs) an Owned that is garbage collected while it
// still owns its handle, so a forgotten Close is visible rather than silent.
package handle

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/containerd/log"
	"github.com/sirupsen/logrus"

	"github.com/teamdman/winhandle/internal/logfields"
	"github.com/teamdman/winhandle/internal/winerror"
)

// Releaser is the release capability for handles of type H.
type Releaser[H comparable] interface {
	// Invalid reports whether h is a sentinel value that must never be released.
	Invalid(h H) bool
	// Release frees h. It is called at most once per owned handle.
	Release(h H) error
}

// Owned holds exactly one handle of type H and releases it through its
// Releaser when closed.
//
// Owned is safe for concurrent use by readers of Get, but the handle must not
// be closed by two logical owners; the caller guarantees single ownership.
type Owned[H comparable] struct {
	mu       sync.Mutex
	h        H
	r        Releaser[H]
	released bool
}

// TakeOwnership wraps h.
//
// The caller attests that it owns h, that h may be released exactly once
// through r, and that no other Owned claims h. None of this is checked.
func TakeOwnership[H comparable](h H, r Releaser[H]) *Owned[H] {
	o := &Owned[H]{h: h, r: r}
	if r.Invalid(h) {
		o.released = true
		return o
	}
	runtime.SetFinalizer(o, (*Owned[H]).finalize)
	return o
}

// Get returns the raw handle for use in other calls. Ownership is not
// transferred; the value must not be released by the caller.
func (o *Owned[H]) Get() H {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.h
}

// Valid reports whether o still owns a non-sentinel handle.
func (o *Owned[H]) Valid() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.released
}

// Close releases the handle. Closing an invalid handle, or closing twice, is a
// no-op that returns nil. A release failure is logged and returned; the handle
// is considered released either way.
func (o *Owned[H]) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.released {
		return nil
	}
	o.released = true
	runtime.SetFinalizer(o, nil)
	return o.release("close")
}

// Disarm gives up ownership: it returns the raw handle and guarantees Owned
// will never release it. The caller becomes responsible for the handle.
func (o *Owned[H]) Disarm() H {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.released = true
	runtime.SetFinalizer(o, nil)
	h := o.h
	var zero H
	o.h = zero
	return h
}

func (o *Owned[H]) String() string {
	return fmt.Sprintf("%v", o.Get())
}

func (o *Owned[H]) finalize() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.released {
		return
	}
	o.released = true
	log.L.WithField(logfields.Handle, fmt.Sprintf("%v", o.h)).Warning("owned handle was garbage collected without being closed")
	_ = o.release("finalize")
}

// release must be called with o.mu held.
func (o *Owned[H]) release(op string) error {
	err := o.r.Release(o.h)
	if err != nil {
		log.L.WithFields(logrus.Fields{
			logfields.Handle:    fmt.Sprintf("%v", o.h),
			logfields.Operation: op,
			logrus.ErrorKey:     err,
		}).Error("failed to release handle")
		return &winerror.IOError{Op: "release", Path: fmt.Sprintf("%v", o.h), Err: err}
	}
	return nil
}

// ReleaseFunc adapts a release function and sentinel set into a Releaser.
type ReleaseFunc[H comparable] struct {
	Sentinels []H
	Free      func(H) error
}

func (f ReleaseFunc[H]) Invalid(h H) bool {
	for _, s := range f.Sentinels {
		if h == s {
			return true
		}
	}
	return false
}

func (f ReleaseFunc[H]) Release(h H) error {
	return f.Free(h)
}

// With takes ownership of h, runs f with it and releases it afterwards.
// The release error is returned only if f succeeded.
func With[H comparable](h H, r Releaser[H], f func(H) error) (err error) {
	o := TakeOwnership(h, r)
	defer func() {
		if cerr := o.Close(); err == nil {
			err = cerr
		}
	}()
	return f(o.Get())
}
