/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package content implements the lazy, finite byte-buffer sequences that
// an outbound request's body is drawn from, and the Cursor that the
// sender engine drives them through.
package content

// Provider is a lazy finite sequence of byte buffers with an optional
// known total length. A length of -1 means unknown.
//
// Next reports the next buffer if one is immediately available. A false
// ok does not by itself mean the sequence is exhausted - for an
// asynchronous provider more may arrive later - callers must consult
// Consumed to distinguish "nothing right now" from "nothing ever again".
//
// Close releases any resource the provider holds (e.g. a file
// descriptor). It must be safe to call more than once; only the first
// call has effect.
//
// Err reports a non-nil error if the provider hit one while producing a
// buffer (e.g. a file read failure). Once Err is non-nil, Next keeps
// returning ok=false and Consumed stays false forever - callers must
// check Err wherever they would otherwise treat "nothing right now, and
// not consumed" as a reason to wait for more.
type Provider interface {
	Len() int64
	Next() (buf []byte, ok bool)
	Consumed() bool
	Err() error
	Close() error
}

// AsyncProvider is a Provider that may yield additional buffers after a
// Next call returns ok=false, notifying a single registered listener when
// it does. SetListener must be called at most once; implementations may
// panic on a second registration.
type AsyncProvider interface {
	Provider
	SetListener(fn func())
}
