// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads the engine's runtime configuration: a JSON
// config file overlaying these defaults, and a .env file (via
// joho/godotenv) read into the process environment before anything
// else starts up.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/dobashi/itaban/pkg/log"
)

// Keys holds every configuration knob the engine reads at startup.
// Load returns a copy of Default with the config file's values laid
// over it.
type Keys struct {
	// Addr is where the HTTP server listens, e.g. ":8080".
	Addr string `json:"addr"`

	// Workspace is the root directory holding one subdirectory per
	// board.
	Workspace string `json:"workspace"`

	// LogLevel is one of "debug", "info", "warn", "err" (see pkg/log).
	LogLevel string `json:"log-level"`

	// LogDate switches timestamps on log lines on or off.
	LogDate bool `json:"log-date"`

	// MetricsAddr is where the Prometheus /metrics endpoint listens.
	// Empty disables the metrics server entirely.
	MetricsAddr string `json:"metrics-addr"`

	// MetricsIntervalSeconds is how often the board/topic-count gauges
	// are resynced against the registry.
	MetricsIntervalSeconds int `json:"metrics-interval-seconds"`
}

// Default is the configuration used when no config file is present.
var Default = Keys{
	Addr:                   ":8080",
	Workspace:              "./workspace",
	LogLevel:               "info",
	LogDate:                false,
	MetricsAddr:            ":9090",
	MetricsIntervalSeconds: 30,
}

// Load reads .env (if present, via godotenv) into the process
// environment, then overlays configFile's JSON onto a copy of Default.
// A missing configFile is not an error; a malformed one is.
func Load(configFile string) (Keys, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("config: reading .env: %v", err)
	}

	keys := Default

	raw, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return keys, nil
		}
		return keys, fmt.Errorf("config: reading %s: %w", configFile, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&keys); err != nil {
		return keys, fmt.Errorf("config: parsing %s: %w", configFile, err)
	}

	if keys.Workspace == "" {
		return keys, fmt.Errorf("config: workspace must not be empty")
	}

	return keys, nil
}
