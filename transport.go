/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package reqsender

import "github.com/badu/reqsender/content"

// Transport is the abstract contract the engine requires of the wire
// layer. Connection pooling, DNS, TLS negotiation, and response parsing
// are out of scope here - concrete implementations (see package wire)
// supply the actual socket I/O.
type Transport interface {
	// SendHeaders writes the request's headers, possibly with inline
	// content opportunistically read from cursor's current buffer, and
	// invokes done with the outcome. It must return promptly; done may
	// be invoked on another goroutine.
	SendHeaders(ex *Exchange, cursor *content.Cursor, done func(error))

	// SendBodyChunk writes cursor's current buffer, or, when
	// cursor.IsConsumed() is true and there is no current buffer,
	// emits whatever protocol terminator the framing requires (e.g. the
	// final chunk of chunked transfer-encoding).
	SendBodyChunk(ex *Exchange, cursor *content.Cursor, done func(error))
}
