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

package logutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vexdb/vex/pkg/config"
)

func TestGlobalLoggerAlwaysSet(t *testing.T) {
	require.NotNil(t, GetGlobalLogger())
	// logging through the package must not panic
	Info("hello", zap.Int("n", 1))
	Debugf("formatted %d", 2)
}

func TestSetupFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vex.log")
	Setup(&config.LogConfig{Level: "debug", Filename: path})
	defer Setup(&config.LogConfig{Level: "info"})

	Debug("file sink check", zap.String("k", "v"))
	require.NoError(t, GetGlobalLogger().Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "file sink check"))
	require.True(t, strings.Contains(string(data), "v"))
}

func TestBadLevelFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vex.log")
	Setup(&config.LogConfig{Level: "nonsense", Filename: path})
	defer Setup(&config.LogConfig{Level: "info"})

	Debug("below the fallback level")
	Info("at the fallback level")
	require.NoError(t, GetGlobalLogger().Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.False(t, strings.Contains(string(data), "below the fallback level"))
	require.True(t, strings.Contains(string(data), "at the fallback level"))
}
