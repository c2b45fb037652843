/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package content

import "testing"

func TestCursorPrimesFirstBufferEagerly(t *testing.T) {
	c := NewCursor(NewBufferProvider([]byte("first")))

	buf, ok := c.Current()
	if !ok || string(buf) != "first" {
		t.Fatalf("Current() = (%q, %v), want (\"first\", true)", buf, ok)
	}
}

func TestCursorEmptyProviderHasNoContent(t *testing.T) {
	c := NewCursor(NewBufferProvider(nil))

	if c.HasContent() {
		t.Fatal("HasContent() = true for an empty buffer provider")
	}
	if _, ok := c.Current(); ok {
		t.Fatal("Current() returned a buffer for an empty provider")
	}
}

func TestCursorAdvanceThenConsumed(t *testing.T) {
	c := NewCursor(NewBufferProvider([]byte("only")))

	if c.IsConsumed() {
		t.Fatal("IsConsumed() = true before Advance was ever called")
	}
	if c.Advance() {
		t.Fatal("Advance() = true, want false - a single-buffer provider has nothing more")
	}
	if !c.IsConsumed() {
		t.Fatal("IsConsumed() = false after Advance exhausted the only buffer")
	}
	if _, ok := c.Current(); ok {
		t.Fatal("Current() still returns a buffer after Advance consumed it")
	}
}

func TestCursorCloseIsIdempotentAndBlindsFurtherReads(t *testing.T) {
	p := NewBufferProvider([]byte("data"))
	c := NewCursor(p)

	if err := c.Close(); err != nil {
		t.Fatalf("Close() = %v, want nil", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close() = %v, want nil", err)
	}

	if _, ok := c.Current(); ok {
		t.Fatal("Current() returned a buffer on a closed cursor")
	}
	if c.Advance() {
		t.Fatal("Advance() = true on a closed cursor")
	}
	if c.HasContent() {
		t.Fatal("HasContent() = true on a closed cursor")
	}
	if c.IsConsumed() {
		t.Fatal("IsConsumed() = true on a closed cursor - closed cursors report false, not the provider's real state")
	}
	if c.Len() != -1 {
		t.Fatalf("Len() = %d on a closed cursor, want -1", c.Len())
	}
}

func TestCursorAsAsync(t *testing.T) {
	syncCursor := NewCursor(NewBufferProvider([]byte("x")))
	if _, ok := syncCursor.AsAsync(); ok {
		t.Fatal("AsAsync() ok = true for a synchronous BufferProvider")
	}

	async := NewCursor(NewDeferredProvider(-1))
	if _, ok := async.AsAsync(); !ok {
		t.Fatal("AsAsync() ok = false for a DeferredProvider")
	}
}

func TestCursorUnknownLengthPassesThrough(t *testing.T) {
	c := NewCursor(NewDeferredProvider(-1))
	if c.Len() != -1 {
		t.Fatalf("Len() = %d, want -1 for a provider with unknown length", c.Len())
	}
}
