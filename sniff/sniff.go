/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package sniff

// sniffLen is the number of bytes inspected, per the algorithm's own
// bound (section 3 of the WHATWG MIME Sniffing spec).
const sniffLen = 512

// sniffSignatures is the ordered list of signatures DetectContentType
// tries, trimmed to the handful of kinds a request body sent through this
// library plausibly carries.
var sniffSignatures = []sig{
	exactSig{[]byte("%PDF-"), "application/pdf"},
	exactSig{[]byte("%!PS-Adobe-"), "application/postscript"},
	exactSig{[]byte("\x89PNG\r\n\x1a\n"), "image/png"},
	exactSig{[]byte("\xff\xd8\xff"), "image/jpeg"},
	exactSig{[]byte("GIF87a"), "image/gif"},
	exactSig{[]byte("GIF89a"), "image/gif"},
	exactSig{[]byte("PK\x03\x04"), "application/zip"},
	exactSig{[]byte("{"), "application/json"},
	exactSig{[]byte("["), "application/json"},
	textSig{},
}

// DetectContentType implements a small subset of the algorithm described
// at https://mimesniff.spec.whatwg.org/. It always returns a valid MIME
// type: if it cannot determine a more specific one, it returns
// "application/octet-stream".
func DetectContentType(data []byte) string {
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}

	firstNonWS := 0
	for ; firstNonWS < len(data) && isWS(data[firstNonWS]); firstNonWS++ {
	}

	for _, sg := range sniffSignatures {
		if ct := sg.match(data, firstNonWS); ct != "" {
			return ct
		}
	}
	return "application/octet-stream"
}

func isWS(b byte) bool {
	switch b {
	case '\t', '\n', '\x0c', '\r', ' ':
		return true
	}
	return false
}
