/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package hdr

import (
	"strings"
	"sync"
)

const toLower = 'a' - 'A'

// Header names the sender, the wire transport, and the content
// providers actually look at or emit. Trimmed from the full canonical
// header-name table down to the subset this request-sender subsystem
// touches.
const (
	Expect           = "Expect"
	ContentLength    = "Content-Length"
	TransferEncoding = "Transfer-Encoding"
	ContentType      = "Content-Type"
	Connection       = "Connection"
	Host             = "Host"
)

var (
	headerNewlineToSpace = strings.NewReplacer("\n", " ", "\r", " ")

	headerSorterPool = sync.Pool{
		New: func() interface{} { return new(headerSorter) },
	}

	// commonHeader interns the header-name constants above so
	// canonicalMIMEHeaderKey can return a shared string instead of
	// allocating a fresh one for the names this package cares about.
	commonHeader = make(map[string]string)

	// isTokenTable is a copy of net/http/lex.go's isTokenTable.
	// See https://httpwg.github.io/specs/rfc7230.html#rule.token.separators
	isTokenTable = [127]bool{
		'0': true, '1': true, '2': true, '3': true, '4': true, '5': true, '6': true, '7': true,
		'8': true, '9': true,

		'a': true, 'b': true, 'c': true, 'd': true, 'e': true, 'f': true, 'g': true, 'h': true,
		'i': true, 'j': true, 'k': true, 'l': true, 'm': true, 'n': true, 'o': true, 'p': true,
		'q': true, 'r': true, 's': true, 't': true, 'u': true, 'v': true, 'w': true, 'x': true,
		'y': true, 'z': true,

		'A': true, 'B': true, 'C': true, 'D': true, 'E': true, 'F': true, 'G': true, 'H': true,
		'I': true, 'J': true, 'K': true, 'L': true, 'M': true, 'N': true, 'O': true, 'P': true,
		'Q': true, 'R': true, 'S': true, 'T': true, 'U': true, 'V': true, 'W': true, 'X': true,
		'Y': true, 'Z': true,

		'!':  true,
		'#':  true,
		'$':  true,
		'%':  true,
		'&':  true,
		'\'': true,
		'*':  true,
		'+':  true,
		'-':  true,
		'.':  true,
		'^':  true,
		'_':  true,
		'`':  true,
		'|':  true,
		'~':  true,
	}
)

type (
	// Header represents the key-value pairs in an HTTP header.
	Header map[string][]string

	keyValues struct {
		key    string
		values []string
	}

	// headerSorter implements sort.Interface by sorting a []keyValues by
	// key. It's used as a pointer so it can fit in a sort.Interface
	// interface value without allocation, and is recycled through
	// headerSorterPool.
	headerSorter struct {
		kvs []keyValues
	}
)
