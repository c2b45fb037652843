/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the shape of the optional YAML config file; command-line
// flags always take precedence over values loaded from it.
type fileConfig struct {
	Target         string            `yaml:"target"`
	Method         string            `yaml:"method"`
	Path           string            `yaml:"path"`
	Headers        map[string]string `yaml:"headers"`
	ExpectContinue bool              `yaml:"expect_continue"`
	Strict         bool              `yaml:"strict_event_ordering"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("sendctl: reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("sendctl: parsing config %s: %w", path, err)
	}
	return cfg, nil
}
