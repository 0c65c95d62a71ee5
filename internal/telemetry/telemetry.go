// Package telemetry provides the receiver's optional debug trace and
// wordlog sinks, grounded on multimon-ng's debuglog()/logword() but
// softened from fatal perror+exit on I/O failure to returned errors:
// the receiver records a failed wordlog write in the debug trace and
// keeps decoding, while a sink that cannot be opened fails NewReceiver.
package telemetry

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pagercast/pocsag/internal/bch"
)

// Tracer emits free-form debug trace lines. A nil *Tracer is valid and
// silently discards everything.
type Tracer struct {
	logger *zap.Logger
	closer *lumberjack.Logger
}

// NewTracer opens a rotating debug log at path. An empty path yields a
// no-op tracer. On failure to prepare the sink, the error is returned so
// the caller can decide whether to warn and continue or abort; NewReceiver
// returns it as a construction error.
func NewTracer(path string) (*Tracer, error) {
	if path == "" {
		return &Tracer{}, nil
	}
	lj := &lumberjack.Logger{Filename: path, MaxSize: 10, MaxBackups: 3, Compress: false}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(lj), zapcore.DebugLevel)
	return &Tracer{logger: zap.New(core), closer: lj}, nil
}

// Debugf records one free-form trace line, matching debuglog()'s
// printf-style call sites.
func (t *Tracer) Debugf(format string, args ...interface{}) {
	if t == nil || t.logger == nil {
		return
	}
	t.logger.Debug(fmt.Sprintf(format, args...))
}

// Close flushes and releases the underlying sink.
func (t *Tracer) Close() error {
	if t == nil || t.logger == nil {
		return nil
	}
	_ = t.logger.Sync()
	return t.closer.Close()
}

// WordLog appends one CSV row per completed codeword:
// timestamp,frame,word_in_frame,crc_ok,parity_ok,hex_word, matching
// multimon-ng's logword().
type WordLog struct {
	f *os.File
	w *csv.Writer
}

// NewWordLog opens path for append, creating it (and its CSV header) if
// necessary. An empty path yields a nil *WordLog, which Log and Close
// treat as a no-op.
func NewWordLog(path string) (*WordLog, error) {
	if path == "" {
		return nil, nil
	}
	existed := true
	if _, err := os.Stat(path); err != nil {
		existed = false
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open wordlog %s: %w", path, err)
	}
	wl := &WordLog{f: f, w: csv.NewWriter(f)}
	if !existed {
		_ = wl.w.Write([]string{"timestamp", "frame", "word_in_frame", "crc_ok", "parity_ok", "hex_word"})
		wl.w.Flush()
	}
	return wl, nil
}

// Log appends one row for a just-completed codeword. word is pre-repair,
// matching multimon-ng which logs the raw received word, not the
// corrected one.
func (w *WordLog) Log(frame, wordInFrame int, word uint32) error {
	if w == nil {
		return nil
	}
	row := []string{
		time.Now().UTC().Format(time.RFC3339),
		fmt.Sprintf("%d", frame),
		fmt.Sprintf("%d", wordInFrame),
		boolDigit(bch.CheckCRC(word)),
		boolDigit(bch.CheckParity(word)),
		fmt.Sprintf("%08x", word),
	}
	if err := w.w.Write(row); err != nil {
		return fmt.Errorf("telemetry: write wordlog row: %w", err)
	}
	w.w.Flush()
	return w.w.Error()
}

// Close flushes and releases the underlying file.
func (w *WordLog) Close() error {
	if w == nil {
		return nil
	}
	w.w.Flush()
	return w.f.Close()
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
