// Copyright 2022 Vex Data
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the engine configuration.  It is an explicit object
// threaded into process construction, not ambient global state.
package config

import (
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/vexdb/vex/pkg/common/vexerr"
)

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// Filename routes logs to a rotated file instead of stderr when set.
	Filename   string `toml:"filename"`
	MaxSize    int    `toml:"max-size"`
	MaxDays    int    `toml:"max-days"`
	MaxBackups int    `toml:"max-backups"`
}

type Config struct {
	// Parallelism is the number of concurrent execution lanes.
	Parallelism int `toml:"parallelism"`

	// HashTableOccupancy is the target load in percent; capacity is
	// rows * 100 / occupancy.
	HashTableOccupancy int `toml:"hash-table-occupancy"`

	// EstimateCardinality sizes the grouping table from a distinct-key
	// estimate instead of the input row count.
	EstimateCardinality bool `toml:"estimate-cardinality"`

	// MemoryLimit caps the engine memory pool in bytes; 0 means no cap.
	MemoryLimit int64 `toml:"memory-limit"`

	Log LogConfig `toml:"log"`
}

// DefaultOccupancy targets a 50% loaded table, i.e. capacity is twice the
// input size.
const DefaultOccupancy = 50

func Default() *Config {
	return &Config{
		Parallelism:        runtime.NumCPU(),
		HashTableOccupancy: DefaultOccupancy,
		Log: LogConfig{
			Level:      "info",
			MaxSize:    512,
			MaxDays:    30,
			MaxBackups: 10,
		},
	}
}

// Load reads a TOML file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, vexerr.NewInvalidInput("config %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Parallelism <= 0 {
		return vexerr.NewInvalidInput("parallelism must be positive, got %d", c.Parallelism)
	}
	if c.HashTableOccupancy <= 0 || c.HashTableOccupancy > 100 {
		return vexerr.NewInvalidInput("hash-table-occupancy must be in (0, 100], got %d", c.HashTableOccupancy)
	}
	if c.MemoryLimit < 0 {
		return vexerr.NewInvalidInput("memory-limit cannot be negative, got %d", c.MemoryLimit)
	}
	return nil
}
