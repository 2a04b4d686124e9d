package main

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Stats 进程级计数器，所有连接共享，只做原子加减
type Stats struct {
	started time.Time

	accepted     atomic.Int64
	active       atomic.Int64
	completed    atomic.Int64
	parseErrors  atomic.Int64
	ioErrors     atomic.Int64
	panics       atomic.Int64
	status2xx    atomic.Int64
	status4xx    atomic.Int64
	status5xx    atomic.Int64
	bytesWritten atomic.Int64
}

func NewStats() *Stats {
	return &Stats{started: time.Now()}
}

func (s *Stats) connOpened() {
	s.accepted.Add(1)
	s.active.Add(1)
}

func (s *Stats) connClosed() {
	s.active.Add(-1)
	s.completed.Add(1)
}

func (s *Stats) responseWritten(status int, n int64) {
	switch status / 100 {
	case 2:
		s.status2xx.Add(1)
	case 4:
		s.status4xx.Add(1)
	case 5:
		s.status5xx.Add(1)
	}
	s.bytesWritten.Add(n)
}

// StatsSnapshot 是 /stats 返回的 JSON
type StatsSnapshot struct {
	Uptime       string `json:"uptime"`
	Accepted     int64  `json:"accepted"`
	Active       int64  `json:"active"`
	Completed    int64  `json:"completed"`
	ParseErrors  int64  `json:"parse_errors"`
	IOErrors     int64  `json:"io_errors"`
	Panics       int64  `json:"panics"`
	Status2xx    int64  `json:"status_2xx"`
	Status4xx    int64  `json:"status_4xx"`
	Status5xx    int64  `json:"status_5xx"`
	BytesWritten int64  `json:"bytes_written"`
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Uptime:       time.Since(s.started).Round(time.Second).String(),
		Accepted:     s.accepted.Load(),
		Active:       s.active.Load(),
		Completed:    s.completed.Load(),
		ParseErrors:  s.parseErrors.Load(),
		IOErrors:     s.ioErrors.Load(),
		Panics:       s.panics.Load(),
		Status2xx:    s.status2xx.Load(),
		Status4xx:    s.status4xx.Load(),
		Status5xx:    s.status5xx.Load(),
		BytesWritten: s.bytesWritten.Load(),
	}
}

// newStatusApp 独立端口上的状态接口，和裸 socket 的主服务互不影响
func newStatusApp(stats *Stats) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "http-server-go status",
		DisableStartupMessage: true,
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(stats.Snapshot())
	})
	return app
}

// serveStatus 阻塞直到 ctx 取消或监听失败
func serveStatus(ctx context.Context, addr string, stats *Stats, logger *Logger) error {
	app := newStatusApp(stats)
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()
	logger.Infof("状态接口监听在 %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			return err
		}
		return <-errCh
	}
}
