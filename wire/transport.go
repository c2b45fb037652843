/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package wire is a concrete HTTP/1.1 net.Conn transport for the sender
// engine: it frames a request's headers and body onto the wire, choosing
// Content-Length or chunked Transfer-Encoding, and never does anything
// the engine doesn't ask for - no pooling, no retries, no response
// reading.
package wire

import (
	"bufio"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/badu/reqsender"
	"github.com/badu/reqsender/content"
	"github.com/badu/reqsender/hdr"
	"github.com/badu/reqsender/sniff"
)

// Transport writes a single exchange's request onto conn. It is not
// reused across exchanges that may run concurrently - a logical channel
// owns exactly one Transport at a time, matching the engine's one
// outstanding transport call invariant.
type Transport struct {
	mu      sync.Mutex
	conn    Conn
	w       *bufio.Writer
	checked *checkedWriter

	chunking bool
}

// NewTransport wraps conn for one channel's worth of request writes.
func NewTransport(conn Conn) *Transport {
	checked := &checkedWriter{conn: conn}
	return &Transport{
		conn:    conn,
		checked: checked,
		w:       bufio.NewWriter(checked),
	}
}

// SendHeaders writes the request line and headers, choosing
// Content-Length framing when cursor reports a known length and
// Transfer-Encoding: chunked otherwise. When the cursor already holds a
// buffer and the request does not declare Expect: 100-continue, that
// buffer is written inline after the headers: raw under Content-Length
// framing, as one chunk under chunked framing.
func (t *Transport) SendHeaders(ex *reqsender.Exchange, cursor *content.Cursor, done func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	req := ex.Request()
	length := cursor.Len()
	t.chunking = length < 0

	if _, err := fmt.Fprintf(t.w, "%s %s HTTP/1.1\r\n", req.Method(), req.RequestURI()); err != nil {
		done(errors.Wrap(err, "wire: write request line"))
		return
	}

	headers := req.Headers().Clone()
	if length >= 0 {
		headers.Set(hdr.ContentLength, fmt.Sprintf("%d", length))
	} else if cursor.HasContent() {
		headers.Set(hdr.TransferEncoding, "chunked")
	}
	if headers.Get(hdr.ContentType) == "" && cursor.HasContent() {
		if buf, ok := cursor.Current(); ok {
			headers.Set(hdr.ContentType, sniff.DetectContentType(buf))
		}
	}
	if err := headers.Write(t.w); err != nil {
		done(errors.Wrap(err, "wire: write headers"))
		return
	}
	if _, err := t.w.Write(crlf); err != nil {
		done(errors.Wrap(err, "wire: write header terminator"))
		return
	}

	// Only write the body inline when nothing gates it: a declared
	// Expect: 100-continue withholds the body until the interim
	// response arrives, so the engine's SenderState - not this opaque
	// write - decides whether the cursor's buffer may go out now. The
	// engine's commit step assumes the headers write already flushed
	// cursor.Current() whenever it finds itself in SenderSending, so
	// that buffer must go out here under either framing, chunked or not.
	expectsContinue := headers.Get(hdr.Expect) == "100-continue"
	if buf, ok := cursor.Current(); ok && !expectsContinue && len(buf) > 0 {
		if t.chunking {
			// writeChunk bypasses t.w's buffer, so the header bytes
			// above must be flushed first or the chunk would reach
			// conn ahead of them.
			if err := t.w.Flush(); err != nil {
				done(errors.Wrap(err, "wire: flush headers"))
				return
			}
			if err := writeChunk(t.checked, buf); err != nil {
				done(errors.Wrap(err, "wire: write inline chunk"))
				return
			}
		} else if _, err := t.w.Write(buf); err != nil {
			done(errors.Wrap(err, "wire: write inline content"))
			return
		}
	}

	if err := t.w.Flush(); err != nil {
		done(errors.Wrap(err, "wire: flush headers"))
		return
	}
	done(nil)
}

// SendBodyChunk writes cursor's current buffer, framed as a chunk if
// chunked encoding was selected. When cursor.IsConsumed() is true and
// there is no current buffer, it emits the chunked terminator, or does
// nothing under Content-Length framing (there is no terminator to send).
func (t *Transport) SendBodyChunk(ex *reqsender.Exchange, cursor *content.Cursor, done func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	buf, ok := cursor.Current()
	if !ok {
		if cursor.IsConsumed() && t.chunking {
			if err := writeChunkEOF(t.checked); err != nil {
				done(errors.Wrap(err, "wire: write chunk terminator"))
				return
			}
		}
		if err := t.w.Flush(); err != nil {
			done(errors.Wrap(err, "wire: flush"))
			return
		}
		done(nil)
		return
	}

	if t.chunking {
		if err := writeChunk(t.checked, buf); err != nil {
			done(errors.Wrap(err, "wire: write chunk"))
			return
		}
	} else if _, err := t.w.Write(buf); err != nil {
		done(errors.Wrap(err, "wire: write content"))
		return
	}

	if err := t.w.Flush(); err != nil {
		done(errors.Wrap(err, "wire: flush content"))
		return
	}
	done(nil)
}
