package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	root = zerolog.New(os.Stderr).With().Timestamp().Logger()
	once sync.Once
)

// Init configures the process-wide log output. In dev mode events go to a
// human-readable console writer on stderr; when logPath is set they are also
// appended to a timestamped file under that directory. Safe to call once,
// before any NewLogger caller runs.
func Init(dev bool, logPath string) {
	once.Do(func() {
		var writers []io.Writer

		if dev {
			writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp})
		}

		if logPath != "" {
			timestamp := time.Now().Format("20060102_150405")
			fileName := fmt.Sprintf("chatmux_log_%s.log", timestamp)
			filePath := filepath.Join(logPath, fileName)

			file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				log.Fatalf("Failed to open log file: %s", err)
			}
			writers = append(writers, file)
		}

		if len(writers) == 0 {
			writers = append(writers, os.Stderr)
		}

		root = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
		if !dev {
			root = root.Level(zerolog.InfoLevel)
		}
	})
}

// Logger is a tag-scoped view of the process logger. Each component creates
// its own with NewLogger so events carry where they came from.
type Logger struct {
	tag string
	zl  zerolog.Logger
}

func NewLogger(tag string) *Logger {
	return &Logger{
		tag: tag,
		zl:  root.With().Str("tag", tag).Logger(),
	}
}

// With returns a copy of the logger carrying an extra field on every event.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{
		tag: l.tag,
		zl:  l.zl.With().Str(key, value).Logger(),
	}
}

func (l *Logger) Info(v ...interface{}) {
	l.zl.Info().Msg(sprint(v...))
}

func (l *Logger) Warn(v ...interface{}) {
	l.zl.Warn().Msg(sprint(v...))
}

func (l *Logger) Error(v ...interface{}) {
	l.zl.Error().Msg(sprint(v...))
}

func (l *Logger) Fatal(v ...interface{}) {
	l.zl.Fatal().Msg(sprint(v...))
}

func sprint(v ...interface{}) string {
	return strings.TrimSuffix(fmt.Sprintln(v...), "\n")
}
