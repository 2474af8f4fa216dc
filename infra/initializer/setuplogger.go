package initializer

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mochapay/mocha/pkg/config"
)

// levelStyle is the badge and colour of one log level.
type levelStyle struct {
	level log.Level
	key   string
	badge string
	color lipgloss.AdaptiveColor
}

var levelStyles = []levelStyle{
	{log.ErrorLevel, "error", "❌", lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF6B6B"}},
	{log.WarnLevel, "warn", "⚠️", lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFB74D"}},
	{log.InfoLevel, "info", "☕", lipgloss.AdaptiveColor{Light: "#6D4C41", Dark: "#D7B899"}},
	{log.DebugLevel, "debug", "🐛", lipgloss.AdaptiveColor{Light: "#5E35B1", Dark: "#9575CD"}},
}

func setupLogger(cfg *config.Log) *slog.Logger {
	logger := NewLogger(os.Stdout, cfg)
	slog.SetDefault(logger)
	return logger
}

// NewLogger returns a charmbracelet logger writing to w as a slog.Logger.
func NewLogger(w io.Writer, cfg *config.Log) *slog.Logger {
	styles := log.DefaultStyles()
	for _, ls := range levelStyles {
		styles.Levels[ls.level] = lipgloss.NewStyle().
			SetString(ls.badge).
			Bold(true).
			Padding(0, 1).
			Foreground(ls.color)
		styles.Keys[ls.key] = lipgloss.NewStyle().Foreground(ls.color)
		styles.Values[ls.key] = lipgloss.NewStyle().Bold(true)
	}
	muted := levelStyles[len(levelStyles)-1].color
	for _, key := range []string{"prefix", "caller", "time", "session_id"} {
		styles.Keys[key] = lipgloss.NewStyle().Foreground(muted)
		styles.Values[key] = lipgloss.NewStyle().Bold(true)
	}

	formatter := log.TextFormatter
	switch cfg.Format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	logger.SetStyles(styles)
	return slog.New(logger)
}
