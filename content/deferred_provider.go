/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package content

import "sync"

// DeferredProvider is an asynchronous Provider: buffers are pushed onto
// it by an application thread via Push, and it notifies a single
// registered listener (set via SetListener, supplied by the sender
// engine) whenever a buffer becomes available after an exhausted Next
// call. Close(), called by the producer, marks the sequence consumed.
//
// This mirrors the "additional buffers may arrive later; the provider
// notifies a single registered listener" half of the content-provider
// contract.
type DeferredProvider struct {
	length int64

	mu       sync.Mutex
	pending  [][]byte
	closed   bool
	consumed bool
	listener func()
}

// NewDeferredProvider builds a provider with the given declared length
// (-1 for unknown).
func NewDeferredProvider(length int64) *DeferredProvider {
	return &DeferredProvider{length: length}
}

func (d *DeferredProvider) Len() int64 {
	return d.length
}

// Push makes buf available to the next Next call. If a listener is
// registered, it is invoked synchronously after the buffer is enqueued -
// the caller (the content source's own thread) re-enters the sender via
// that callback.
func (d *DeferredProvider) Push(buf []byte) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.pending = append(d.pending, buf)
	listener := d.listener
	d.mu.Unlock()
	if listener != nil {
		listener()
	}
}

// Close marks the sequence exhausted: no further buffers will arrive.
// Idempotent. If the cursor already drained pending and went idle
// waiting for more, nothing else will ever prompt it to notice the
// stream ended, so Close fires the registered listener exactly like
// Push does - the cursor re-checks Next/Consumed and finds the stream
// over instead of another buffer.
func (d *DeferredProvider) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	listener := d.listener
	d.mu.Unlock()
	if listener != nil {
		listener()
	}
	return nil
}

func (d *DeferredProvider) Next() ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pending) > 0 {
		buf := d.pending[0]
		d.pending = d.pending[1:]
		return buf, true
	}
	if d.closed {
		d.consumed = true
	}
	return nil, false
}

func (d *DeferredProvider) Consumed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.consumed && len(d.pending) == 0
}

// Err always returns nil: the producer pushes buffers directly, there is
// no I/O for this provider itself to fail on.
func (d *DeferredProvider) Err() error {
	return nil
}

// SetListener registers fn as the single listener notified by Push.
// Panics if a listener is already registered - a programming error, per
// the contract's "a single registered listener".
func (d *DeferredProvider) SetListener(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listener != nil {
		panic("reqsender: content: listener already registered")
	}
	d.listener = fn
}
