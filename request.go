/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package reqsender

import (
	"github.com/badu/reqsender/content"
	"github.com/badu/reqsender/hdr"
)

// Request is the abstract contract the engine consumes: headers, an
// abort-cause getter, and a content provider. The application request
// builder and its concrete implementation are out of scope for this
// subsystem; the wire transport additionally needs enough of the
// request line to frame it, which is exposed here too since nothing
// else in this module builds requests.
type Request interface {
	// Method is the HTTP method, e.g. "GET" or "POST".
	Method() string

	// RequestURI is the request-target sent on the wire (origin-form
	// path+query, or absolute-form when talking to a proxy).
	RequestURI() string

	// Headers returns the request's header map. The engine inspects it
	// for Expect: 100-continue but never mutates it.
	Headers() hdr.Header

	// AbortCause returns the cause if the application has already
	// aborted this request (e.g. before send() was even called), or nil.
	AbortCause() error

	// ContentProvider returns the request body's content provider, or
	// nil for a bodyless request.
	ContentProvider() content.Provider
}

// expectsContinue reports whether req declared Expect: 100-continue.
func expectsContinue(req Request) bool {
	h := req.Headers()
	if h == nil {
		return false
	}
	return h.Get(hdr.Expect) == "100-continue"
}
