/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package reqsender

import "fmt"

// programmingError panics with a descriptive message. An unexpected
// SenderState reached in a transition switch is a contract violation,
// not a runtime condition - terminal, not recoverable.
func programmingError(format string, args ...interface{}) {
	panic(fmt.Sprintf("reqsender: programming error: "+format, args...))
}
