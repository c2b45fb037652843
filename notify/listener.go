/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package notify implements the sender's notifier bus contract: a set of
// hooks run synchronously, on the thread performing the triggering state
// transition, for the lifecycle of a single exchange.
//
// It follows the ClientTrace shape familiar from net/http/httptrace: a
// struct of nullable function fields, combined via Compose rather than a
// channel or observer list.
package notify

// Listener is the set of lifecycle hooks the sender invokes. Any field
// may be nil. Hooks are called synchronously on the thread performing the
// triggering transition; they must not block indefinitely, and may call
// back into the sender (e.g. Abort) - all state transitions for the
// firing event are complete before the corresponding hook runs.
type Listener struct {
	// Begin is called once, after RequestState QUEUED -> BEGIN.
	Begin func()

	// Headers is called once, just before the transport is asked to
	// send headers.
	Headers func()

	// Commit is called once, after the header write completes and
	// RequestState moves HEADERS -> COMMIT.
	Commit func()

	// Content is called once per body buffer handed to the transport,
	// after RequestState moves to CONTENT.
	Content func(buf []byte)

	// Success is called exactly once, mutually exclusive with Failure.
	Success func()

	// Failure is called exactly once, mutually exclusive with Success.
	Failure func(cause error)

	// Complete is called exactly once, after both the request and
	// response sides of the exchange have terminated.
	Complete func(result Result)
}

// Result is the terminal summary of an exchange: success, or the cause
// that failed it.
type Result struct {
	Failure error
}

func (r Result) Succeeded() bool { return r.Failure == nil }

func (l *Listener) fireBegin() {
	if l != nil && l.Begin != nil {
		l.Begin()
	}
}

func (l *Listener) fireHeaders() {
	if l != nil && l.Headers != nil {
		l.Headers()
	}
}

func (l *Listener) fireCommit() {
	if l != nil && l.Commit != nil {
		l.Commit()
	}
}

func (l *Listener) fireContent(buf []byte) {
	if l != nil && l.Content != nil {
		l.Content(buf)
	}
}

func (l *Listener) fireSuccess() {
	if l != nil && l.Success != nil {
		l.Success()
	}
}

func (l *Listener) fireFailure(cause error) {
	if l != nil && l.Failure != nil {
		l.Failure(cause)
	}
}

func (l *Listener) fireComplete(result Result) {
	if l != nil && l.Complete != nil {
		l.Complete(result)
	}
}

// FireBegin, FireHeaders, ... are the engine's dispatch entry points,
// exported so the root package can fire events without reimplementing the
// nil-checks above. l may be nil.
func (l *Listener) FireBegin()                { l.fireBegin() }
func (l *Listener) FireHeaders()               { l.fireHeaders() }
func (l *Listener) FireCommit()                { l.fireCommit() }
func (l *Listener) FireContent(buf []byte)     { l.fireContent(buf) }
func (l *Listener) FireSuccess()               { l.fireSuccess() }
func (l *Listener) FireFailure(cause error)    { l.fireFailure(cause) }
func (l *Listener) FireComplete(result Result) { l.fireComplete(result) }
