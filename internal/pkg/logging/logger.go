package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

const (
	fieldComponent = "component"
	fieldNetwork   = "network"
)

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, text, simple, or compact
	Output string `yaml:"output"` // stderr (default) or stdout
}

// CompactFormatter renders "[time][LEVEL][component][network] message (k=v, ...)".
type CompactFormatter struct {
	ShowTime bool
}

// Format renders a single log entry
func (f *CompactFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	if f.ShowTime {
		fmt.Fprintf(b, "[%s]", entry.Time.Format("15:04:05"))
	}

	fmt.Fprintf(b, "[%s]", strings.ToUpper(entry.Level.String()))

	if component, ok := entry.Data[fieldComponent]; ok {
		fmt.Fprintf(b, "[%v]", component)
	}
	if network, ok := entry.Data[fieldNetwork]; ok {
		fmt.Fprintf(b, "[%v]", network)
	}

	b.WriteString(" ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != fieldComponent && k != fieldNetwork {
			keys = append(keys, k)
		}
	}

	if len(keys) > 0 {
		sort.Strings(keys)

		b.WriteString(" (")
		for i, key := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s=%v", key, entry.Data[key])
		}
		b.WriteString(")")
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// InitLogger initializes the global logger with the provided configuration
func InitLogger(config LogConfig) {
	Logger = newLogger(config, outputFor(config.Output))
}

func outputFor(name string) io.Writer {
	if strings.EqualFold(name, "stdout") {
		return os.Stdout
	}
	return os.Stderr
}

func newLogger(config LogConfig, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
		if config.Level != "" {
			logger.Warnf("Invalid log level '%s', defaulting to 'info'", config.Level)
		}
	}
	logger.SetLevel(level)

	switch strings.ToLower(config.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	case "simple":
		logger.SetFormatter(&CompactFormatter{ShowTime: false})
	case "compact":
		logger.SetFormatter(&CompactFormatter{ShowTime: true})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
		logger.Warnf("Invalid log format '%s', defaulting to 'text'", config.Format)
	}

	logger.Debugf("Logger initialized with level: %s, format: %s", level.String(), config.Format)
	return logger
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		InitLogger(LogConfig{
			Level:  "info",
			Format: "text",
		})
	}
	return Logger
}

// Helper functions for common logging patterns
func WithComponent(component string) *logrus.Entry {
	return GetLogger().WithField(fieldComponent, component)
}

func WithNetwork(network string) *logrus.Entry {
	return GetLogger().WithField(fieldNetwork, network)
}

func WithComponentAndNetwork(component, network string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		fieldComponent: component,
		fieldNetwork:   network,
	})
}

func WithError(err error) *logrus.Entry {
	return GetLogger().WithError(err)
}
