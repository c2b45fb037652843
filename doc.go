/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package reqsender drives a single outbound HTTP request through its
// lifecycle: queued, header emission, (possibly deferred or
// 100-continue-gated) body transmission, and terminal success or failure.
//
// The package is built around two lock-free state machines - RequestState
// (what stage the request as a whole is in, and whether it's still
// abortable) and SenderState (who currently owns the transport and
// whether there's pending work that was missed) - plus the Engine that
// mediates them against an abstract transport and content provider.
package reqsender
