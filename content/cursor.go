/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package content

import "sync/atomic"

// Cursor holds a reference to a Provider's iterator and exposes the
// three-state view the sender engine needs: has-current-chunk,
// advanceable, consumed.
//
// Invariants: once Close is called, all further methods are no-ops.
// Consumed may only become true after Advance returns false.
type Cursor struct {
	provider Provider
	current  []byte
	hasCur   bool
	closed   int32
}

// NewCursor builds a fresh cursor over provider, priming it with the
// first buffer if one is immediately available.
func NewCursor(provider Provider) *Cursor {
	c := &Cursor{provider: provider}
	if buf, ok := provider.Next(); ok {
		c.current = buf
		c.hasCur = true
	}
	return c
}

// Current returns the current buffer, if any.
func (c *Cursor) Current() (buf []byte, ok bool) {
	if c.isClosed() {
		return nil, false
	}
	return c.current, c.hasCur
}

// Advance reports whether a next buffer became current. False means
// nothing is available right now - it does not imply Consumed.
func (c *Cursor) Advance() bool {
	if c.isClosed() {
		return false
	}
	buf, ok := c.provider.Next()
	c.current = buf
	c.hasCur = ok
	return ok
}

// HasContent reports whether the provider declared any content at all.
func (c *Cursor) HasContent() bool {
	if c.isClosed() {
		return false
	}
	return c.provider.Len() != 0
}

// IsConsumed reports whether the provider has signalled exhaustion.
func (c *Cursor) IsConsumed() bool {
	if c.isClosed() {
		return false
	}
	return c.provider.Consumed()
}

// Len returns the provider's declared total length, or -1 if unknown.
func (c *Cursor) Len() int64 {
	if c.isClosed() {
		return -1
	}
	return c.provider.Len()
}

// Err reports the provider's error, if it has one. A caller that finds
// Current false, Advance false, and IsConsumed false must check Err
// before treating that as "nothing right now, wait for a notification" -
// for a synchronous (non-async) provider hitting a read error, no
// notification is ever coming.
func (c *Cursor) Err() error {
	if c.isClosed() {
		return nil
	}
	return c.provider.Err()
}

// Close releases the underlying provider's resources. Idempotent.
func (c *Cursor) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	c.hasCur = false
	c.current = nil
	return c.provider.Close()
}

func (c *Cursor) isClosed() bool {
	return atomic.LoadInt32(&c.closed) != 0
}

// AsAsync returns the underlying provider as an AsyncProvider, if it is
// one.
func (c *Cursor) AsAsync() (AsyncProvider, bool) {
	ap, ok := c.provider.(AsyncProvider)
	return ap, ok
}
