package logger

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sqve/wtm/internal/fs"
)

// OpLogConfig configures the operation log.
type OpLogConfig struct {
	FilePath   string // Path to log file; empty disables the log
	MaxSizeMB  int    // Max size in MB before rotation
	MaxBackups int    // Max number of old log files to keep
	MaxAgeDays int    // Max days to keep old log files
	Level      string // Minimum log level (debug, info, warn, error)
}

// OpLog records every mutating step wtm takes as JSON lines, so an
// interrupted rename or removal can be reconstructed afterwards.
type OpLog struct {
	zap    *zap.Logger
	writer *lumberjack.Logger
}

// OpenOpLog creates the operation log. When the file cannot be prepared the
// returned log discards everything; the failure is reported at debug level.
func OpenOpLog(cfg OpLogConfig) *OpLog {
	if cfg.FilePath == "" {
		return NopOpLog()
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 5
	}
	if cfg.MaxAgeDays == 0 {
		cfg.MaxAgeDays = 30
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), fs.DirStrict); err != nil {
		Debug("Operation log disabled: %v", err)
		return NopOpLog()
	}

	writer := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(writer), level)
	return &OpLog{
		zap:    zap.New(core).With(zap.Int("pid", os.Getpid())),
		writer: writer,
	}
}

// NopOpLog returns a log that discards everything.
func NopOpLog() *OpLog {
	return &OpLog{zap: zap.NewNop()}
}

// NewOpLogForTest wraps an existing zap logger, typically an observer.
func NewOpLogForTest(z *zap.Logger) *OpLog {
	return &OpLog{zap: z}
}

// Begin starts a new operation with a fresh id. Safe on a nil OpLog.
func (l *OpLog) Begin(operation string, fields ...zap.Field) *Op {
	z := zap.NewNop()
	if l != nil && l.zap != nil {
		z = l.zap
	}
	id := uuid.NewString()
	op := &Op{
		ID:  id,
		log: z.With(zap.String("op_id", id), zap.String("operation", operation)),
	}
	op.log.Info("begin", fields...)
	return op
}

// Close flushes and closes the log file.
func (l *OpLog) Close() error {
	if l == nil || l.zap == nil {
		return nil
	}
	_ = l.zap.Sync()
	if l.writer != nil {
		return l.writer.Close()
	}
	return nil
}

// Op is one logged operation.
type Op struct {
	ID  string
	log *zap.Logger
}

// Step records a completed step.
func (o *Op) Step(step string, fields ...zap.Field) {
	o.log.Info("step", append([]zap.Field{zap.String("step", step)}, fields...)...)
}

// Warn records a non-fatal problem.
func (o *Op) Warn(step string, err error, fields ...zap.Field) {
	o.log.Warn("warning", append([]zap.Field{zap.String("step", step), zap.Error(err)}, fields...)...)
}

// Fail records the step that stopped the operation.
func (o *Op) Fail(step string, err error, fields ...zap.Field) {
	o.log.Error("failed", append([]zap.Field{zap.String("step", step), zap.Error(err)}, fields...)...)
}

// Done records successful completion.
func (o *Op) Done(fields ...zap.Field) {
	o.log.Info("done", fields...)
}
