package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New 创建带时间戳的结构化日志,level 与 formatter 来自配置
func New(w io.Writer, level, formatter string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "daad",
	})
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = "info"
	}
	if lvl, err := log.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	} else {
		l.Warn("未知的日志级别,使用 info", "level", level)
	}
	switch strings.ToLower(formatter) {
	case "json":
		l.SetFormatter(log.JSONFormatter)
	case "logfmt":
		l.SetFormatter(log.LogfmtFormatter)
	default:
		l.SetFormatter(log.TextFormatter)
	}
	return l
}

// Discard 测试用,丢弃所有输出
func Discard() *log.Logger {
	return log.New(io.Discard)
}
