package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/cliffyan/go-site-search/internal/config"
)

// Setup 按配置设置全局日志，返回的 closer 用于关闭日志文件
func Setup(cfg config.LogConfig) (func() error, error) {
	writer, closer, err := openOutput(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("open log output: %w", err)
	}

	log.SetOutput(writer)
	log.SetLevel(parseLevel(cfg.Level))
	log.SetFormatter(newFormatter(cfg.Format))
	return closer, nil
}

func newFormatter(format string) log.Formatter {
	if strings.ToLower(format) == "json" {
		return &log.JSONFormatter{}
	}
	return &log.TextFormatter{FullTimestamp: true}
}

// parseLevel 未知级别按 info 处理
func parseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func openOutput(output string) (io.Writer, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(output) {
	case "stdout":
		return os.Stdout, noop, nil
	case "stderr", "":
		return os.Stderr, noop, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, err
		}
		return f, f.Close, nil
	}
}
