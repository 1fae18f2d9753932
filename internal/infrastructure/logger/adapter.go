package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gurney/internal/application/port/output"
)

var _ output.LoggerPort = (*ZapAdapter)(nil)

// ZapAdapter writes JSON-lines logs to a per-run file under log/ and
// mirrors Info and above to stderr.
type ZapAdapter struct {
	sugar *zap.SugaredLogger
	file  *os.File
}

func NewZapAdapter(task string) (*ZapAdapter, error) {
	safeName := sanitize(task)
	filename := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02_15-04-05"), safeName)

	if err := os.MkdirAll("log", 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	file, err := os.Create(filepath.Join("log", filename))
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), zapcore.DebugLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stderr), zapcore.InfoLevel),
	)

	return &ZapAdapter{
		sugar: zap.New(core).Sugar(),
		file:  file,
	}, nil
}

func (l *ZapAdapter) Debug(msg string, args ...any) { l.sugar.Debugw(msg, args...) }
func (l *ZapAdapter) Info(msg string, args ...any)  { l.sugar.Infow(msg, args...) }
func (l *ZapAdapter) Warn(msg string, args ...any)  { l.sugar.Warnw(msg, args...) }
func (l *ZapAdapter) Error(msg string, args ...any) { l.sugar.Errorw(msg, args...) }

func (l *ZapAdapter) WithField(key string, value any) output.LoggerPort {
	return &ZapAdapter{
		sugar: l.sugar.With(key, value),
		file:  l.file,
	}
}

func (l *ZapAdapter) Close() error {
	_ = l.sugar.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// sanitize makes a task description safe to use as a file name.
func sanitize(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			result = append(result, r)
		} else {
			result = append(result, '_')
		}
	}
	s = string(result)
	if s == "" {
		return "task"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
