/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package sniff implements the small content-type sniffing algorithm the
// wire transport consults when a request has no explicit Content-Type.
package sniff

type sig interface {
	// match returns the content-type if data matches the signature, or
	// "" if it does not. firstNonWS is the index of the first
	// non-whitespace byte in data.
	match(data []byte, firstNonWS int) string
}

type exactSig struct {
	sig []byte
	ct  string
}

type textSig struct{}
