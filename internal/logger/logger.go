// Package logger provides structured logging with colored console output,
// optional file output, and per-component logger prefixing using log/slog.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Event names a notable step of an aggregation pass.
type Event string

const (
	EventAuthUser       Event = "AUTH_USER"
	EventLiveStreams    Event = "LIVE_STREAMS"
	EventOfflineStreams Event = "OFFLINE_STREAMS"
	EventSearch         Event = "SEARCH"
	EventMedia          Event = "MEDIA"
	EventPassFailed     Event = "PASS_FAILED"
)

var eventEmoji = map[Event]string{
	EventAuthUser:       "👤",
	EventLiveStreams:    "🟢",
	EventOfflineStreams: "⚫",
	EventSearch:         "🔎",
	EventMedia:          "🎬",
	EventPassFailed:     "❌",
}

// ANSI color codes for terminal output.
const (
	colorReset     = "\033[0m"
	colorRed       = "\033[31m"
	colorGreen     = "\033[32m"
	colorYellow    = "\033[33m"
	colorLightBlue = "\033[94m"
	colorMagenta   = "\033[35m"
	colorCyan      = "\033[36m"
	colorGray      = "\033[90m"
)

// coloredAttrKeys maps slog attribute keys to ANSI color codes for value highlighting.
var coloredAttrKeys = map[string]string{
	"channel": colorMagenta,
	"user_id": colorMagenta,
	"login":   colorMagenta,
	"query":   colorLightBlue,
	"path":    colorLightBlue,
}

// Config holds logger configuration options.
type Config struct {
	Level     slog.Level
	FileLevel slog.Level
	Colored   bool
	LogDir    string
	Component string
	// Output is the console destination. Defaults to os.Stdout.
	Output io.Writer
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		FileLevel: slog.LevelDebug,
		Colored:   true,
	}
}

// Logger wraps slog.Logger with component-scoped context.
type Logger struct {
	*slog.Logger
	cfg    Config
	writer io.Writer
}

// Setup creates a new Logger based on the provided configuration.
// It sets up console and optional file handlers.
func Setup(cfg Config) (*Logger, error) {
	w := cfg.Output
	if w == nil {
		w = os.Stdout
	}
	return setup(cfg, w)
}

func setup(cfg Config, w io.Writer) (*Logger, error) {
	var handlers []slog.Handler

	consoleHandler := newColorHandler(w, cfg.Level, cfg.Colored, cfg.Component)
	handlers = append(handlers, consoleHandler)

	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory %s: %w", cfg.LogDir, err)
		}

		logFile, err := os.OpenFile(
			filepath.Join(cfg.LogDir, "browser.log"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND,
			0o644,
		)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}

		fileHandler := slog.NewTextHandler(logFile, &slog.HandlerOptions{
			Level: cfg.FileLevel,
		})
		handlers = append(handlers, fileHandler)
	}

	var handler slog.Handler
	if len(handlers) == 1 {
		handler = handlers[0]
	} else {
		handler = &multiHandler{handlers: handlers}
	}

	return &Logger{
		Logger: slog.New(handler),
		cfg:    cfg,
		writer: w,
	}, nil
}

// Discard returns a Logger that drops every record. Useful in tests.
func Discard() *Logger {
	l, _ := setup(Config{Level: slog.LevelError + 4}, io.Discard)
	return l
}

// WithComponent returns a new Logger whose console lines are prefixed with
// the component name.
func (l *Logger) WithComponent(name string) *Logger {
	newCfg := l.cfg
	newCfg.Component = name
	newLogger, err := setup(newCfg, l.writer)
	if err != nil {
		return l
	}
	return newLogger
}

// Event logs a message at INFO level tagged with the event name.
// If the event has a mapped emoji, it is prepended to the log message.
func (l *Logger) Event(event Event, msg string, args ...any) {
	if emoji, ok := eventEmoji[event]; ok {
		msg = emoji + " " + msg
	}
	l.Logger.Info(msg, append(args, "event", string(event))...)
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type colorHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     slog.Level
	colored   bool
	component string
	attrs     []slog.Attr
}

func newColorHandler(w io.Writer, level slog.Level, colored bool, component string) *colorHandler {
	return &colorHandler{
		mu:        &sync.Mutex{},
		writer:    w,
		level:     level,
		colored:   colored,
		component: component,
	}
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	timeStr := record.Time.Format("02/01/06 15:04:05")
	levelStr := record.Level.String()
	msg := record.Message

	prefix := ""
	if h.component != "" {
		prefix = fmt.Sprintf("[%s] ", h.component)
	}

	if h.colored {
		fmt.Fprintf(h.writer, "%s%s - %s%s%s - %s%s",
			colorGray, timeStr,
			h.levelColor(record.Level), levelStr, colorReset,
			prefix, msg,
		)
	} else {
		fmt.Fprintf(h.writer, "%s - %s - %s%s", timeStr, levelStr, prefix, msg)
	}

	for _, a := range h.attrs {
		h.writeAttr(a)
	}

	record.Attrs(func(a slog.Attr) bool {
		h.writeAttr(a)
		return true
	})

	fmt.Fprintln(h.writer)
	return nil
}

func (h *colorHandler) writeAttr(a slog.Attr) {
	if h.colored {
		if color, ok := coloredAttrKeys[a.Key]; ok {
			fmt.Fprintf(h.writer, " %s=%s%v%s", a.Key, color, a.Value, colorReset)
			return
		}
	}
	fmt.Fprintf(h.writer, " %s=%v", a.Key, a.Value)
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &colorHandler{
		mu:        h.mu,
		writer:    h.writer,
		level:     h.level,
		colored:   h.colored,
		component: h.component,
		attrs:     append(copyAttrs(h.attrs), attrs...),
	}
}

func (h *colorHandler) WithGroup(_ string) slog.Handler {
	return &colorHandler{
		mu:        h.mu,
		writer:    h.writer,
		level:     h.level,
		colored:   h.colored,
		component: h.component,
		attrs:     copyAttrs(h.attrs),
	}
}

func copyAttrs(attrs []slog.Attr) []slog.Attr {
	if len(attrs) == 0 {
		return nil
	}
	cp := make([]slog.Attr, len(attrs))
	copy(cp, attrs)
	return cp
}

func (h *colorHandler) levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorCyan
	}
}

type multiHandler struct {
	handlers []slog.Handler
}

func (handler *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range handler.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (handler *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range handler.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (handler *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(handler.handlers))
	for i, h := range handler.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (handler *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(handler.handlers))
	for i, h := range handler.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}
