/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package content

import "testing"

func TestBufferProviderServesOnceThenConsumed(t *testing.T) {
	p := NewBufferProvider([]byte("payload"))

	if p.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", p.Len())
	}
	if p.Consumed() {
		t.Fatal("Consumed() = true before Next was ever called")
	}

	buf, ok := p.Next()
	if !ok || string(buf) != "payload" {
		t.Fatalf("first Next() = (%q, %v), want (\"payload\", true)", buf, ok)
	}
	if p.Consumed() {
		t.Fatal("Consumed() = true right after the only buffer was served")
	}

	buf, ok = p.Next()
	if ok {
		t.Fatalf("second Next() = (%q, true), want ok = false", buf)
	}
	if !p.Consumed() {
		t.Fatal("Consumed() = false after the served buffer was polled again")
	}
}

func TestBufferProviderEmptyIsImmediatelyConsumed(t *testing.T) {
	p := NewBufferProvider(nil)

	if p.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", p.Len())
	}
	if _, ok := p.Next(); ok {
		t.Fatal("Next() returned a buffer for an empty provider")
	}
	if !p.Consumed() {
		t.Fatal("Consumed() = false for an empty provider after one Next() call")
	}
}

func TestBufferProviderCloseIsANoop(t *testing.T) {
	p := NewBufferProvider([]byte("x"))
	if err := p.Close(); err != nil {
		t.Fatalf("Close() = %v, want nil", err)
	}
	if _, ok := p.Next(); !ok {
		t.Fatal("Next() stopped serving its buffer after Close - BufferProvider has no resource to release")
	}
}
