/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package faketransport is a test double standing in for package wire:
// it records every chunk handed to it instead of writing to a socket,
// and lets tests script failures at specific call indices.
package faketransport

import (
	"sync"

	"github.com/badu/reqsender"
	"github.com/badu/reqsender/content"
)

// Transport records headers/body calls in order. Fail, when set, is
// called before each SendHeaders/SendBodyChunk and may return an error
// to simulate a transport failure at that point.
type Transport struct {
	mu sync.Mutex

	HeaderCalls int
	ChunkCalls  int
	Chunks      [][]byte

	Fail func(call string, n int) error
}

var _ reqsender.Transport = (*Transport)(nil)

func (t *Transport) SendHeaders(ex *reqsender.Exchange, cursor *content.Cursor, done func(error)) {
	t.mu.Lock()
	t.HeaderCalls++
	n := t.HeaderCalls
	t.mu.Unlock()

	if t.Fail != nil {
		if err := t.Fail("headers", n); err != nil {
			done(err)
			return
		}
	}
	done(nil)
}

func (t *Transport) SendBodyChunk(ex *reqsender.Exchange, cursor *content.Cursor, done func(error)) {
	t.mu.Lock()
	t.ChunkCalls++
	n := t.ChunkCalls
	if buf, ok := cursor.Current(); ok {
		cp := make([]byte, len(buf))
		copy(cp, buf)
		t.Chunks = append(t.Chunks, cp)
	}
	t.mu.Unlock()

	if t.Fail != nil {
		if err := t.Fail("chunk", n); err != nil {
			done(err)
			return
		}
	}
	done(nil)
}
