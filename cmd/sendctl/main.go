/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// sendctl is a thin CLI around the sender engine: it dials a single
// connection, builds one request from flags or a YAML config file, and
// drives it through wire.Transport, logging the outcome. Intermediate
// lifecycle events are logged at debug level, which the production
// logger it builds does not print.
package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/badu/reqsender"
	"github.com/badu/reqsender/content"
	"github.com/badu/reqsender/hdr"
	"github.com/badu/reqsender/metrics"
	"github.com/badu/reqsender/notify"
	"github.com/badu/reqsender/wire"
)

var version = "dev"

type rootFlags struct {
	configPath     string
	target         string
	method         string
	path           string
	body           string
	expectContinue bool
	strict         bool
	timeout        time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "sendctl",
		Short:         "Drive a single HTTP request through the sender engine",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(flags)
		},
	}
	cmd.Flags().StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&flags.target, "target", "", "host:port to dial")
	cmd.Flags().StringVar(&flags.method, "method", "", "HTTP method (default GET)")
	cmd.Flags().StringVar(&flags.path, "path", "", "request-target (path+query) (default /)")
	cmd.Flags().StringVar(&flags.body, "body", "", "request body: a literal string, \"-\" for stdin, or \"@path\" for a file")
	cmd.Flags().BoolVar(&flags.expectContinue, "expect-continue", false, "send Expect: 100-continue and withhold the body until it is proceeded")
	cmd.Flags().BoolVar(&flags.strict, "strict-event-ordering", false, "fire complete before releasing the channel")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 10*time.Second, "dial and round-trip timeout")
	return cmd
}

func run(flags *rootFlags) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return errors.Wrap(err, "sendctl: building logger")
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	fileCfg, err := loadFileConfig(flags.configPath)
	if err != nil {
		return err
	}
	target := firstNonEmpty(flags.target, fileCfg.Target)
	if target == "" {
		return errors.New("sendctl: --target (or config target:) is required")
	}
	method := firstNonEmpty(flags.method, fileCfg.Method, "GET")
	path := firstNonEmpty(flags.path, fileCfg.Path, "/")

	headers := hdr.Header{}
	for k, v := range fileCfg.Headers {
		headers.Set(k, v)
	}
	headers.Set(hdr.Host, target)
	if flags.expectContinue || fileCfg.ExpectContinue {
		headers.Set(hdr.Expect, "100-continue")
	}

	provider, err := resolveBodyProvider(flags.body)
	if err != nil {
		return err
	}
	if provider != nil {
		defer provider.Close()
	}

	req := reqsender.NewSimpleRequest(method, path, headers, provider)
	ex := reqsender.NewExchange(req, nil)

	conn, err := net.DialTimeout("tcp", target, flags.timeout)
	if err != nil {
		return errors.Wrapf(err, "sendctl: dialing %s", target)
	}
	defer conn.Close()

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	done := make(chan notify.Result, 1)
	var once sync.Once
	appListener := &notify.Listener{
		Begin:   func() { sugar.Debugw("begin", "method", method, "path", path) },
		Headers: func() { sugar.Debugw("headers") },
		Commit:  func() { sugar.Debugw("commit") },
		Content: func(buf []byte) { sugar.Debugw("content", "bytes", len(buf)) },
		Success: func() { sugar.Infow("success") },
		Failure: func(cause error) { sugar.Errorw("failure", "cause", cause) },
		Complete: func(result notify.Result) {
			once.Do(func() { done <- result })
		},
	}
	listener := notify.Compose(appListener, collector.Listener())

	transport := wire.NewTransport(conn)
	engine := reqsender.NewEngine(transport, listener, reqsender.Config{
		StrictEventOrdering: flags.strict || fileCfg.Strict,
	})

	engine.Send(ex)

	select {
	case result := <-done:
		if !result.Succeeded() {
			return errors.Wrap(result.Failure, "sendctl: request failed")
		}
		return nil
	case <-time.After(flags.timeout):
		engine.Abort(errors.New("sendctl: timed out waiting for completion"))
		return errors.New("sendctl: timed out")
	}
}

// resolveBodyProvider builds the request body's content provider from the
// --body flag: "-" reads the whole of stdin into a buffer, "@path" streams
// the named file via content.FileProvider, any other non-empty string is
// sent as a literal buffer, and "" yields no body at all.
func resolveBodyProvider(body string) (content.Provider, error) {
	switch {
	case body == "":
		return nil, nil
	case body == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(err, "sendctl: reading body from stdin")
		}
		return content.NewBufferProvider(data), nil
	case strings.HasPrefix(body, "@"):
		provider, err := content.NewFileProvider(body[1:])
		if err != nil {
			return nil, errors.Wrapf(err, "sendctl: opening body file %s", body[1:])
		}
		return provider, nil
	default:
		return content.NewBufferProvider([]byte(body)), nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
