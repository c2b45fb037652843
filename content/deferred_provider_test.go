/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package content

import "testing"

func TestDeferredProviderNextBeforeAnyPush(t *testing.T) {
	p := NewDeferredProvider(-1)

	if _, ok := p.Next(); ok {
		t.Fatal("Next() returned a buffer before anything was pushed")
	}
	if p.Consumed() {
		t.Fatal("Consumed() = true before Close - nothing says the stream is over yet")
	}
}

func TestDeferredProviderPushThenNext(t *testing.T) {
	p := NewDeferredProvider(-1)
	p.Push([]byte("a"))
	p.Push([]byte("b"))

	buf, ok := p.Next()
	if !ok || string(buf) != "a" {
		t.Fatalf("first Next() = (%q, %v), want (\"a\", true)", buf, ok)
	}
	buf, ok = p.Next()
	if !ok || string(buf) != "b" {
		t.Fatalf("second Next() = (%q, %v), want (\"b\", true)", buf, ok)
	}
	if _, ok := p.Next(); ok {
		t.Fatal("third Next() returned a buffer with nothing pending and not closed")
	}
}

func TestDeferredProviderConsumedOnlyAfterCloseAndDrain(t *testing.T) {
	p := NewDeferredProvider(-1)
	p.Push([]byte("a"))
	p.Close()

	if p.Consumed() {
		t.Fatal("Consumed() = true while a pushed buffer is still pending")
	}
	if _, ok := p.Next(); !ok {
		t.Fatal("Next() did not return the buffer pushed before Close")
	}
	if _, ok := p.Next(); ok {
		t.Fatal("Next() returned a buffer after the pending queue drained")
	}
	if !p.Consumed() {
		t.Fatal("Consumed() = false after Close and a fully drained queue")
	}
}

func TestDeferredProviderPushAfterCloseIsDropped(t *testing.T) {
	p := NewDeferredProvider(-1)
	p.Close()
	p.Push([]byte("late"))

	if _, ok := p.Next(); ok {
		t.Fatal("Next() returned a buffer pushed after Close")
	}
}

func TestDeferredProviderListenerFiresOnPushAndOnClose(t *testing.T) {
	p := NewDeferredProvider(-1)
	var calls int
	p.SetListener(func() { calls++ })

	p.Push([]byte("a"))
	if calls != 1 {
		t.Fatalf("calls after Push = %d, want 1", calls)
	}

	p.Close()
	if calls != 2 {
		t.Fatalf("calls after Close = %d, want 2 - Close must wake a cursor waiting for more", calls)
	}

	p.Close()
	if calls != 2 {
		t.Fatalf("calls after second Close = %d, want 2 - Close must be idempotent", calls)
	}
}

func TestDeferredProviderSetListenerTwicePanics(t *testing.T) {
	p := NewDeferredProvider(-1)
	p.SetListener(func() {})

	defer func() {
		if recover() == nil {
			t.Fatal("second SetListener did not panic")
		}
	}()
	p.SetListener(func() {})
}
