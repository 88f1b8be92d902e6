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

// Package logutil wraps zap behind a swappable global logger.
package logutil

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vexdb/vex/pkg/config"
)

var global atomic.Pointer[zap.Logger]

func init() {
	global.Store(newLogger(&config.LogConfig{Level: "info"}))
}

func newLogger(cfg *config.LogConfig) *zap.Logger {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level = zapcore.InfoLevel
		}
	}
	var sink zapcore.WriteSyncer
	if cfg.Filename != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxAge:     cfg.MaxDays,
			MaxBackups: cfg.MaxBackups,
		})
	} else {
		sink = zapcore.AddSync(os.Stderr)
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), sink, level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

// Setup replaces the global logger according to cfg.
func Setup(cfg *config.LogConfig) {
	global.Store(newLogger(cfg))
}

func GetGlobalLogger() *zap.Logger {
	return global.Load()
}

func Debug(msg string, fields ...zap.Field) {
	global.Load().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	global.Load().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	global.Load().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	global.Load().Error(msg, fields...)
}

func Debugf(format string, args ...any) {
	global.Load().Sugar().Debugf(format, args...)
}

func Infof(format string, args ...any) {
	global.Load().Sugar().Infof(format, args...)
}

func Warnf(format string, args ...any) {
	global.Load().Sugar().Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	global.Load().Sugar().Errorf(format, args...)
}
