package main

import (
	"fmt"
	"io"
	"log"

	"github.com/fatih/color"
)

// Logger 带级别前缀的日志：I 信息，W 警告，E 错误
// 终端下前缀带颜色，重定向到文件或设置 NO_COLOR 时自动关闭
type Logger struct {
	l    *log.Logger
	info *color.Color
	warn *color.Color
	errc *color.Color
}

func NewLogger(w io.Writer) *Logger {
	return &Logger{
		l:    log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		info: color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
		errc: color.New(color.FgRed, color.Bold),
	}
}

func (l *Logger) Infof(format string, args ...any) {
	l.output(l.info, "I", format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.output(l.warn, "W", format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.output(l.errc, "E", format, args...)
}

func (l *Logger) output(c *color.Color, tag, format string, args ...any) {
	l.l.Print(c.Sprint(tag) + " " + fmt.Sprintf(format, args...))
}
