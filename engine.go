/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package reqsender

import (
	"fmt"

	"github.com/badu/reqsender/content"
	"github.com/badu/reqsender/notify"
)

// Engine drives a single outbound request through its lifecycle: queued,
// header emission, (possibly deferred or 100-continue-gated) body
// transmission, terminal success or failure. One Engine is instantiated
// per logical channel and reused across successive requests on it.
//
// Engine holds no lock. The request and sender state machines are the
// only shared mutable state besides the cursor reference, which is
// written exactly twice per request (on Send, on reset) by the thread
// observing those transitions.
type Engine struct {
	transport Transport
	listener  *notify.Listener
	config    Config

	rsm *requestStateMachine
	ssm *senderStateMachine

	// cursor is written exactly twice per request lifetime: once in
	// Send, once (to nil) in reset/dispose.
	cursor *content.Cursor

	exchange *Exchange
}

// NewEngine builds an Engine for one logical channel. transport supplies
// the actual wire I/O; listener (may be nil) observes lifecycle events.
func NewEngine(transport Transport, listener *notify.Listener, config Config) *Engine {
	return &Engine{
		transport: transport,
		listener:  listener,
		config:    config,
		rsm:       newRequestStateMachine(),
		ssm:       newSenderStateMachine(SenderIdle),
	}
}

// Send begins processing ex. It returns immediately; completion is
// reported via the listener's Success/Failure/Complete hooks.
func (e *Engine) Send(ex *Exchange) {
	e.exchange = ex

	if cause := ex.Request().AbortCause(); cause != nil {
		e.Abort(cause)
		return
	}

	if !e.rsm.compareAndSet(StateQueued, StateBegin) {
		programmingError("send called on a channel not in QUEUED state")
	}
	e.listener.FireBegin()

	provider := ex.Request().ContentProvider()
	if provider == nil {
		provider = emptyProvider{}
	}
	cursor := content.NewCursor(provider)
	e.cursor = cursor

	wantsContinue := expectsContinue(ex.Request())
	if !wantsContinue {
		e.ssm.set(SenderSending)
	} else if cursor.HasContent() {
		e.ssm.set(SenderExpectingWithContent)
	} else {
		e.ssm.set(SenderExpecting)
	}

	// Register as the async provider's listener only after the SSM has
	// been set; otherwise a racing on_deferred_content could observe
	// IDLE and double-initiate a send.
	if async, ok := cursor.AsAsync(); ok {
		async.SetListener(e.onDeferredContent)
	}

	if !e.rsm.compareAndSet(StateBegin, StateHeaders) {
		// Aborted in the window between notify_begin and here.
		return
	}
	e.listener.FireHeaders()
	e.transport.SendHeaders(ex, cursor, e.commitCompleted)
}

// commitCompleted is the I/O completion callback for SendHeaders.
func (e *Engine) commitCompleted(cause error) {
	if cause != nil {
		e.anyToFailure(cause)
		return
	}

	// Blanket recover: a panic while handling the commit (a listener hook,
	// or the sends it kicks off synchronously) fails the exchange instead
	// of unwinding into the transport. Once the exchange has been released
	// there is nothing left to fail, so the panic continues.
	defer func() {
		if r := recover(); r != nil {
			if e.exchange == nil {
				panic(r)
			}
			e.anyToFailure(fmt.Errorf("reqsender: commit callback: %v", r))
		}
	}()

	if !e.rsm.compareAndSet(StateHeaders, StateCommit) {
		return
	}
	e.listener.FireCommit()
	if e.rsm.get() == StateFailure {
		// The Commit listener reentered and called Abort.
		return
	}

	cursor := e.cursor
	if !cursor.HasContent() {
		e.someToSuccess()
		return
	}

	// Only a SENDING-family state means the transport wrote the cursor's
	// current buffer inline while emitting headers (there was no
	// 100-continue gate in the way). EXPECTING/WAITING/PROCEEDING mean
	// the body is still withheld, so the buffer hasn't actually reached
	// the wire yet and must not be notified here.
	if e.ssm.get() == SenderSending || e.ssm.get() == SenderSendingWithContent {
		if buf, ok := cursor.Current(); ok {
			e.someToContent(buf)
		}
	}

	for {
		switch e.ssm.get() {
		case SenderSending:
			if cursor.Advance() {
				e.initiateContent()
				return
			}
			if cursor.IsConsumed() {
				e.initiateLast()
				return
			}
			if e.failOnProviderErr(cursor) {
				return
			}
			if e.ssm.compareAndSet(SenderSending, SenderIdle) {
				return
			}
		case SenderSendingWithContent:
			if e.ssm.compareAndSet(SenderSendingWithContent, SenderSending) {
				continue
			}
		case SenderExpecting, SenderExpectingWithContent:
			if e.ssm.compareAndSet(SenderExpecting, SenderWaiting) ||
				e.ssm.compareAndSet(SenderExpectingWithContent, SenderWaiting) {
				return
			}
		case SenderProceeding:
			if e.ssm.compareAndSet(SenderProceeding, SenderIdle) {
				return
			}
		case SenderProceedingWithContent:
			if e.ssm.compareAndSet(SenderProceedingWithContent, SenderSending) {
				continue
			}
		default:
			programmingError("commitCompleted: unexpected sender state %v", e.ssm.get())
		}
	}
}

// initiateContent is the single entry point for kicking off a body chunk
// send, whether reached from the commit path, the content-iteration
// callback, a deferred-content notification, or a 100-continue arrival.
// Unifying these (rather than the two ad hoc direct-send call sites)
// means there is exactly one place that calls transport.SendBodyChunk
// for a non-terminal chunk.
func (e *Engine) initiateContent() {
	e.transport.SendBodyChunk(e.exchange, e.cursor, e.contentCompleted)
}

// initiateLast sends the terminal chunk: cursor is consumed and holds no
// current buffer, so the transport emits whatever protocol terminator
// the framing requires.
func (e *Engine) initiateLast() {
	e.transport.SendBodyChunk(e.exchange, e.cursor, e.lastCompleted)
}

// contentCompleted is the self-rescheduling content-iteration callback.
func (e *Engine) contentCompleted(cause error) {
	if cause != nil {
		e.anyToFailure(cause)
		return
	}
	if e.rsm.get() == StateFailure {
		// A concurrent abort already disposed of this request; the
		// cursor is closed and the SSM has been forced to IDLE, so
		// there is nothing left for this completion to do.
		return
	}

	cursor := e.cursor
	if buf, ok := cursor.Current(); ok {
		e.someToContent(buf)
	}

	if cursor.Advance() {
		e.initiateContent()
		return
	}
	if cursor.IsConsumed() {
		e.initiateLast()
		return
	}
	if e.failOnProviderErr(cursor) {
		return
	}

	for {
		switch e.ssm.get() {
		case SenderSending:
			if e.ssm.compareAndSet(SenderSending, SenderIdle) {
				return
			}
		case SenderSendingWithContent:
			if e.ssm.compareAndSet(SenderSendingWithContent, SenderSending) {
				e.initiateContent()
				return
			}
		default:
			programmingError("contentCompleted: unexpected sender state %v", e.ssm.get())
		}
	}
}

// lastCompleted is the I/O completion callback for the terminal chunk.
func (e *Engine) lastCompleted(cause error) {
	if cause != nil {
		e.anyToFailure(cause)
		return
	}
	if e.rsm.get() == StateFailure {
		return
	}
	e.someToSuccess()
}

// failOnProviderErr fails the exchange if cursor's provider recorded a
// read error, rather than letting the sender go idle waiting for a
// notification that a synchronous provider (no SetListener, no producer
// thread) will never send. Returns true if it handled the failure.
func (e *Engine) failOnProviderErr(cursor *content.Cursor) bool {
	if err := cursor.Err(); err != nil {
		e.anyToFailure(err)
		return true
	}
	return false
}

// someToContent notifies content and, if the request hasn't already
// moved there, advances the RSM to CONTENT.
func (e *Engine) someToContent(buf []byte) {
	moved := e.rsm.compareAndSet(StateCommit, StateContent) || e.rsm.get() == StateContent
	if !moved {
		// A concurrent abort moved the RSM to FAILURE; per the rule that
		// notifications only follow a successful CAS, this buffer is
		// dropped rather than notified.
		return
	}
	e.listener.FireContent(buf)
}

// someToSuccess transitions the exchange to success. Guarded on RSM
// being COMMIT or CONTENT; FAILURE is a no-op (a concurrent abort already
// won); any other state is a programming error.
func (e *Engine) someToSuccess() {
	switch e.rsm.get() {
	case StateCommit, StateContent:
	case StateFailure:
		return
	default:
		programmingError("someToSuccess: unexpected request state %v", e.rsm.get())
	}

	if !e.exchange.RequestComplete() {
		return
	}

	cursor := e.cursor
	e.cursor = nil
	cursor.Close()
	e.rsm.reset()
	e.ssm.set(SenderIdle)

	result := e.exchange.TerminateRequest(nil)
	e.listener.FireSuccess()
	e.dispatchComplete(result)
}

// anyToFailure transitions the exchange to failure. Returns true if this
// call was the one that won the race to terminate the request side.
func (e *Engine) anyToFailure(cause error) bool {
	if !e.exchange.RequestComplete() {
		return false
	}

	priorState, _ := e.rsm.dispose()

	cursor := e.cursor
	e.cursor = nil
	if cursor != nil {
		cursor.Close()
	}
	e.ssm.set(SenderIdle)

	result := e.exchange.TerminateRequest(cause)
	e.listener.FireFailure(cause)

	// Before commit, the peer never saw the request, so its response
	// will never arrive naturally - synthesize one here regardless of
	// whether cause originated from an application abort or a transport
	// failure. ResponseComplete is idempotent, so this is a no-op if the
	// response side somehow already terminated on its own.
	if result == nil && priorState.isBeforeCommit() {
		if e.exchange.ResponseComplete() {
			result = e.exchange.TerminateResponse(cause)
		}
	}

	e.dispatchComplete(result)
	return true
}

// dispatchComplete fires Complete if result is non-nil, honoring the
// strict-event-ordering knob. In this library there is no channel pool;
// the "release" side of the ordering is release(), which drops the
// engine's reference to the exchange, and the knob governs whether
// listeners observe completion before or after that. The state machines
// have already left their in-flight states by the time this runs
// (QUEUED/IDLE after success, FAILURE/IDLE after failure).
func (e *Engine) dispatchComplete(result *Result) {
	if result == nil {
		return
	}
	notifyResult := notify.Result{Failure: result.Failure}
	if e.config.StrictEventOrdering {
		e.listener.FireComplete(notifyResult)
		e.release()
	} else {
		e.release()
		e.listener.FireComplete(notifyResult)
	}
}

// release drops the engine's reference to the completed exchange,
// making the channel available for the next Send.
func (e *Engine) release() {
	e.exchange = nil
}

// onDeferredContent is registered with async content providers as their
// single listener. It is invoked from the content provider's own thread
// whenever a new buffer becomes available.
func (e *Engine) onDeferredContent() {
	if e.rsm.get() == StateFailure {
		// Raced with an abort that already closed the cursor.
		return
	}

	for {
		current := e.ssm.get()
		switch current {
		case SenderIdle:
			if e.ssm.compareAndSet(SenderIdle, SenderSending) {
				// commitCompleted or contentCompleted already tried
				// cursor.Advance() and found nothing, which is why the
				// sender went idle - pull the buffer this call just
				// made available before initiating its send.
				cursor := e.cursor
				if cursor.Advance() {
					e.initiateContent()
					return
				}
				if cursor.IsConsumed() {
					e.initiateLast()
					return
				}
				if e.ssm.compareAndSet(SenderSending, SenderIdle) {
					return
				}
				continue
			}
		case SenderSendingWithContent, SenderExpectingWithContent,
			SenderProceedingWithContent, SenderWaiting:
			// Content will be picked up on return to a quiescent state.
			return
		default:
			if to, ok := current.withContent(); ok {
				if e.ssm.compareAndSet(current, to) {
					return
				}
				continue
			}
			programmingError("onDeferredContent: unexpected sender state %v", current)
		}
	}
}

// Proceed signals the arrival (or failure) of the 100-continue interim
// response. cause is nil on a clean 100 Continue; non-nil if the
// response path failed before one arrived.
func (e *Engine) Proceed(cause error) {
	if !expectsContinue(e.exchange.Request()) {
		return
	}
	if cause != nil {
		e.Abort(cause)
		return
	}

	for {
		switch e.ssm.get() {
		case SenderExpecting:
			if e.ssm.compareAndSet(SenderExpecting, SenderProceeding) {
				return
			}
		case SenderExpectingWithContent:
			if e.ssm.compareAndSet(SenderExpectingWithContent, SenderProceedingWithContent) {
				return
			}
		case SenderWaiting:
			// The cursor's current buffer, if any, is the one withheld
			// since commit - it was never advanced past, so it must be
			// sent now rather than skipped via Advance. contentCompleted
			// notifies it once the send actually completes, the same way
			// it notifies any other just-sent buffer. But if nothing was
			// current at commit time, a deferred provider may still have
			// queued a buffer (or closed) while gated - onDeferredContent
			// never pulls it in WAITING, since that's one of its own
			// no-op quiescent states - so Advance must be tried here too.
			cursor := e.cursor
			if _, ok := cursor.Current(); ok {
				if e.ssm.compareAndSet(SenderWaiting, SenderSending) {
					e.initiateContent()
					return
				}
				continue
			}
			if cursor.Advance() {
				if e.ssm.compareAndSet(SenderWaiting, SenderSending) {
					e.initiateContent()
					return
				}
				continue
			}
			if cursor.IsConsumed() {
				if e.ssm.compareAndSet(SenderWaiting, SenderSending) {
					e.initiateLast()
					return
				}
				continue
			}
			if e.ssm.compareAndSet(SenderWaiting, SenderIdle) {
				return
			}
		default:
			programmingError("proceed: unexpected sender state %v", e.ssm.get())
		}
	}
}

// Abort attempts to cancel the request in flight. It succeeds only while
// the request is still abortable (before-commit or sending); it returns
// false if the request already reached a terminal state.
func (e *Engine) Abort(cause error) bool {
	if e.exchange == nil {
		// Between requests: a completed exchange resets rsm to QUEUED
		// for reuse, which looks abortable on its own, but there is
		// nothing in flight to abort.
		return false
	}
	if !e.rsm.get().isAbortable() {
		return false
	}
	return e.anyToFailure(cause)
}

// emptyProvider is the zero-content provider substituted when a request
// carries no body.
type emptyProvider struct{}

func (emptyProvider) Len() int64           { return 0 }
func (emptyProvider) Next() ([]byte, bool) { return nil, false }
func (emptyProvider) Consumed() bool       { return true }
func (emptyProvider) Err() error           { return nil }
func (emptyProvider) Close() error         { return nil }
