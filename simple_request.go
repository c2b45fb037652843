/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package reqsender

import (
	"sync"
	"sync/atomic"

	"github.com/badu/reqsender/content"
	"github.com/badu/reqsender/hdr"
)

// SimpleRequest is a minimal concrete Request: a fixed method, target,
// and header set, with a content provider supplied once at construction
// and an externally settable abort cause. It is enough to drive the
// engine from a CLI or a test; a full application request builder is
// out of scope for this module.
type SimpleRequest struct {
	method     string
	requestURI string

	mu      sync.Mutex
	headers hdr.Header

	provider content.Provider

	abortCause atomic.Value
}

// NewSimpleRequest builds a request for method/requestURI with the given
// headers (may be nil) and an optional content provider (nil for a
// bodyless request).
func NewSimpleRequest(method, requestURI string, headers hdr.Header, provider content.Provider) *SimpleRequest {
	if headers == nil {
		headers = hdr.Header{}
	}
	return &SimpleRequest{method: method, requestURI: requestURI, headers: headers, provider: provider}
}

func (r *SimpleRequest) Method() string     { return r.method }
func (r *SimpleRequest) RequestURI() string { return r.requestURI }

func (r *SimpleRequest) Headers() hdr.Header {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.headers
}

func (r *SimpleRequest) ContentProvider() content.Provider { return r.provider }

// Abort records cause as this request's abort cause. Safe to call from
// any goroutine, any number of times - only the first call has effect.
func (r *SimpleRequest) Abort(cause error) {
	r.abortCause.CompareAndSwap(nil, abortBox{cause})
}

func (r *SimpleRequest) AbortCause() error {
	v := r.abortCause.Load()
	if v == nil {
		return nil
	}
	return v.(abortBox).cause
}

// abortBox boxes an error so atomic.Value (which requires one consistent
// concrete type across all Store calls) can hold possibly-nil causes.
type abortBox struct{ cause error }
