/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package wire

import (
	"bufio"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/badu/reqsender"
	"github.com/badu/reqsender/content"
	"github.com/badu/reqsender/hdr"
)

// pipeConn adapts one end of a net.Pipe to the Conn interface the
// transport writes to.
type pipeConn struct {
	net.Conn
}

func newPipe() (*pipeConn, net.Conn) {
	client, server := net.Pipe()
	return &pipeConn{client}, server
}

func newExchange(method string, headers hdr.Header, provider content.Provider) *reqsender.Exchange {
	req := reqsender.NewSimpleRequest(method, "/widgets", headers, provider)
	return reqsender.NewExchange(req, nil)
}

// A Content-Length body short enough to fit the first buffer must be
// written inline with the headers, in one SendHeaders call.
func TestSendHeadersContentLengthInline(t *testing.T) {
	client, server := newPipe()
	transport := NewTransport(client)
	defer server.Close()

	out := make(chan string, 1)
	go func() {
		r := bufio.NewReader(server)
		line1, _ := r.ReadString('\n')
		rest := make([]byte, 256)
		n, _ := r.Read(rest)
		out <- line1 + string(rest[:n])
	}()

	provider := content.NewBufferProvider([]byte("hello"))
	cursor := content.NewCursor(provider)
	ex := newExchange("POST", hdr.Header{}, provider)

	var sendErr error
	done := make(chan struct{})
	transport.SendHeaders(ex, cursor, func(err error) {
		sendErr = err
		close(done)
	})
	<-done
	if sendErr != nil {
		t.Fatalf("SendHeaders error = %v", sendErr)
	}

	got := <-out
	if !strings.HasPrefix(got, "POST /widgets HTTP/1.1\r\n") {
		t.Fatalf("request line wrong, got %q", got)
	}
	if !strings.Contains(got, "Content-Length: 5\r\n") {
		t.Fatalf("missing Content-Length header, got %q", got)
	}
	if !strings.HasSuffix(got, "hello") {
		t.Fatalf("inline body missing, got %q", got)
	}
}

// Expect: 100-continue must withhold the body from SendHeaders even
// though a buffer is already available on the cursor.
func TestSendHeadersExpectContinueWithholdsBody(t *testing.T) {
	client, server := newPipe()
	transport := NewTransport(client)
	defer server.Close()

	out := make(chan string, 1)
	go func() {
		r := bufio.NewReader(server)
		var sb strings.Builder
		buf := make([]byte, 512)
		for {
			n, err := r.Read(buf)
			sb.Write(buf[:n])
			if err != nil || strings.HasSuffix(sb.String(), "\r\n\r\n") {
				break
			}
		}
		out <- sb.String()
	}()

	headers := hdr.Header{}
	headers.Set(hdr.Expect, "100-continue")
	provider := content.NewBufferProvider([]byte("ABC"))
	cursor := content.NewCursor(provider)
	ex := newExchange("POST", headers, provider)

	done := make(chan struct{})
	transport.SendHeaders(ex, cursor, func(error) { close(done) })
	<-done

	got := <-out
	if strings.Contains(got, "ABC") {
		t.Fatalf("body must not be written inline when Expect: 100-continue is set, got %q", got)
	}
	if !strings.Contains(got, "Expect: 100-continue\r\n") {
		t.Fatalf("missing Expect header, got %q", got)
	}
}

// An unknown-length (chunked) body with a buffer already available must
// still go out inline with the headers - just chunk-framed instead of
// raw - and the header bytes must precede it on the wire.
func TestSendHeadersChunkedInlineOrdering(t *testing.T) {
	client, server := newPipe()
	transport := NewTransport(client)
	defer server.Close()

	out := make(chan string, 1)
	go func() {
		r := bufio.NewReader(server)
		var sb strings.Builder
		buf := make([]byte, 512)
		for {
			n, err := r.Read(buf)
			sb.Write(buf[:n])
			if err != nil {
				break
			}
		}
		out <- sb.String()
	}()

	provider := content.NewDeferredProvider(-1)
	provider.Push([]byte("chunk-one"))
	cursor := content.NewCursor(provider)
	ex := newExchange("POST", hdr.Header{}, provider)

	done := make(chan struct{})
	transport.SendHeaders(ex, cursor, func(error) { close(done) })
	<-done
	server.Close()

	got := <-out
	headerEnd := strings.Index(got, "\r\n\r\n")
	if headerEnd < 0 {
		t.Fatalf("no header terminator found in %q", got)
	}
	if !strings.Contains(got[:headerEnd], "Transfer-Encoding: chunked") {
		t.Fatalf("missing chunked framing header, got %q", got)
	}
	body := got[headerEnd+4:]
	if !strings.HasPrefix(body, "9\r\nchunk-one\r\n") {
		t.Fatalf("chunk framing wrong or out of order, got %q", body)
	}
}

// SendBodyChunk must emit the chunked terminator once the cursor is
// consumed under chunked framing.
func TestSendBodyChunkTerminator(t *testing.T) {
	client, server := newPipe()
	transport := NewTransport(client)
	transport.chunking = true
	defer server.Close()

	out := make(chan string, 1)
	go func() {
		buf := make([]byte, 64)
		var sb strings.Builder
		for {
			n, err := server.Read(buf)
			sb.Write(buf[:n])
			if err != nil {
				break
			}
		}
		out <- sb.String()
	}()

	provider := content.NewBufferProvider(nil)
	cursor := content.NewCursor(provider) // priming an empty provider already consumes it

	done := make(chan struct{})
	transport.SendBodyChunk(nil, cursor, func(error) { close(done) })
	<-done
	server.Close()

	got := <-out
	if got != "0\r\n\r\n" {
		t.Fatalf("chunk terminator = %q, want \"0\\r\\n\\r\\n\"", got)
	}
}

func TestSendHeadersWriteErrorIsReported(t *testing.T) {
	client, server := newPipe()
	server.Close() // break the pipe before any write happens
	transport := NewTransport(client)

	provider := content.NewBufferProvider(nil)
	cursor := content.NewCursor(provider)
	ex := newExchange("GET", hdr.Header{}, provider)

	var sendErr error
	done := make(chan struct{})
	transport.SendHeaders(ex, cursor, func(err error) {
		sendErr = err
		close(done)
	})
	<-done
	if sendErr == nil {
		t.Fatal("SendHeaders did not report an error on a closed connection")
	}
}

func TestCheckedWriterLatchesFirstError(t *testing.T) {
	boom := errors.New("boom")
	cw := &checkedWriter{conn: failingConn{err: boom}}

	if _, err := cw.Write([]byte("a")); err != boom {
		t.Fatalf("first Write error = %v, want %v", err, boom)
	}
	if _, err := cw.Write([]byte("b")); err != boom {
		t.Fatalf("second Write error = %v, want the latched %v without retrying the conn", err, boom)
	}
}

type failingConn struct {
	err error
}

func (f failingConn) Write(p []byte) (int, error) {
	return 0, f.err
}

func (f failingConn) Close() error { return nil }
