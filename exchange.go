/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package reqsender

import (
	"sync"

	"github.com/google/uuid"
)

// Conversation is an opaque per-connection-channel token the application
// may attach to an Exchange (e.g. a correlation ID for the HTTP channel
// it travelled over). The sender never interprets it.
type Conversation interface{}

// Result is the terminal summary of an exchange: produced only once both
// its request and response sides have completed.
type Result struct {
	// Failure is the cause that failed the exchange, or nil on success.
	// It is the request side's cause when that is non-nil, otherwise the
	// response side's: a failure on either side fails the whole exchange.
	Failure error
}

// Exchange is the conjoined request+response in flight. The sender holds
// exactly one at a time. It carries the request, any prior abort cause,
// and atomically transitions to request-complete / response-complete
// exactly once each.
type Exchange struct {
	ID      uuid.UUID
	request Request
	conv    Conversation

	mu        sync.Mutex
	reqDone   bool
	respDone  bool
	reqCause  error
	respCause error
}

// NewExchange builds a fresh exchange for req, optionally tagged with a
// conversation token.
func NewExchange(req Request, conv Conversation) *Exchange {
	return &Exchange{ID: uuid.New(), request: req, conv: conv}
}

func (e *Exchange) Request() Request           { return e.request }
func (e *Exchange) Conversation() Conversation { return e.conv }

// RequestComplete atomically marks the request side terminal. It returns
// false if the request side was already complete - callers (success and
// failure paths alike) contend on this to guarantee exactly one terminal
// event per exchange.
func (e *Exchange) RequestComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.reqDone {
		return false
	}
	e.reqDone = true
	return true
}

// ResponseComplete atomically marks the response side terminal. Same
// exactly-once contract as RequestComplete.
func (e *Exchange) ResponseComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.respDone {
		return false
	}
	e.respDone = true
	return true
}

// TerminateRequest records cause as the request side's outcome and
// returns a non-nil Result iff the response side has already completed.
func (e *Exchange) TerminateRequest(cause error) *Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reqCause = cause
	if !e.respDone {
		return nil
	}
	return &Result{Failure: firstNonNil(e.reqCause, e.respCause)}
}

// TerminateResponse records cause as the response side's outcome and
// returns a non-nil Result iff the request side has already completed.
func (e *Exchange) TerminateResponse(cause error) *Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.respCause = cause
	if !e.reqDone {
		return nil
	}
	return &Result{Failure: firstNonNil(e.reqCause, e.respCause)}
}

func firstNonNil(a, b error) error {
	if a != nil {
		return a
	}
	return b
}
