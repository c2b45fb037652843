/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package wire

import "fmt"

var (
	crlf     = []byte("\r\n")
	chunkEOF = []byte("0\r\n\r\n")
)

// writeChunk writes p as one chunked-transfer-encoding chunk: the size
// line in hex, the bytes, and a trailing CRLF. An empty p writes nothing
// (the terminator is written separately via writeChunkEOF).
func writeChunk(w *checkedWriter, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%x\r\n", len(p)); err != nil {
		return err
	}
	if _, err := w.Write(p); err != nil {
		return err
	}
	_, err := w.Write(crlf)
	return err
}

// writeChunkEOF writes the zero-length terminating chunk and the final
// blank line, marking end of the chunked body. No trailers are supported
// - this module never produces response trailers, only request bodies.
func writeChunkEOF(w *checkedWriter) error {
	_, err := w.Write(chunkEOF)
	return err
}
