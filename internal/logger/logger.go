// Package logger собирает zap-логгер: консоль (stderr) и, при необходимости, JSON-файлы.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel разбирает уровень логирования; неизвестное значение — warn.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// New создаёт логгер. Консольные записи идут в console (обычно os.Stderr),
// чтобы не смешиваться с выводом прогресса на stdout.
// Если outputDir не пуст, дополнительно пишутся gcmgen.log и error.log (JSON).
// Возвращаемая функция закрывает файлы.
func New(level, outputDir string, console io.Writer) (*zap.Logger, func(), error) {
	logLevel := ParseLevel(level)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(console), logLevel),
	}
	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("не удалось создать каталог логов %s: %w", outputDir, err)
		}
		for _, spec := range []struct {
			name  string
			level zapcore.LevelEnabler
		}{
			{"gcmgen.log", logLevel},
			// только ошибки
			{"error.log", zapcore.ErrorLevel},
		} {
			p := filepath.Join(outputDir, spec.name)
			f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("open %s: %w", p, err)
			}
			files = append(files, f)
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(f), spec.level))
		}
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return l, func() {
		_ = l.Sync()
		closeAll()
	}, nil
}
