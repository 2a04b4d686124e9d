package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"runtime/debug"
	"sync"
	"time"
)

// Server 每个连接一个 goroutine，只处理一个请求，处理完即关闭
type Server struct {
	cfg    Config
	mux    *Mux
	logger *Logger
	stats  *Stats

	// 并发上限，nil 表示不限制
	sem chan struct{}
	wg  sync.WaitGroup
}

func NewServer(cfg Config, mux *Mux, logger *Logger, stats *Stats) *Server {
	s := &Server{
		cfg:    cfg,
		mux:    mux,
		logger: logger,
		stats:  stats,
	}
	if cfg.MaxConns > 0 {
		s.sem = make(chan struct{}, cfg.MaxConns)
	}
	return s
}

// ListenAndServe 绑定 cfg.Addr 并开始服务，ctx 取消后返回
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("绑定端口失败: %w", err)
	}
	s.logger.Infof("监听 %s，最大并发 %d", listener.Addr(), s.cfg.MaxConns)
	return s.Serve(ctx, listener)
}

// Serve 接受连接直到 ctx 取消或 listener 被关闭，返回前等待所有连接处理完
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		listener.Close()
	}()
	defer s.wg.Wait()

	for {
		// 先拿到名额再 Accept，满了就不再接新连接
		if err := s.acquire(ctx); err != nil {
			s.logger.Infof("停止接受新连接")
			return nil
		}
		conn, err := listener.Accept()
		if err != nil {
			s.release()
			if ctx.Err() != nil {
				s.logger.Infof("监听器已关闭，停止接受新连接")
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.logger.Errorf("接受连接时出错: %v", err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.release()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) acquire(ctx context.Context) error {
	if s.sem == nil {
		return ctx.Err()
	}
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) release() {
	if s.sem != nil {
		<-s.sem
	}
}

// handleConnection 一个 worker 的完整生命周期，出错只影响这一个连接
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	s.logger.Infof("接受新连接: %s", conn.RemoteAddr())
	s.stats.connOpened()
	defer s.stats.connClosed()
	defer func() {
		if r := recover(); r != nil {
			s.stats.panics.Add(1)
			s.logger.Errorf("%s: panic: %v\n%s", conn.RemoteAddr(), r, debug.Stack())
		}
	}()

	if err := s.serveConn(conn); err != nil {
		s.logger.Errorf("%s: %v", conn.RemoteAddr(), err)
	}
}

// serveConn 读取 -> 解析 -> 路由 -> 写回
func (s *Server) serveConn(conn net.Conn) error {
	if s.cfg.ReadTimeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			return fmt.Errorf("设置超时失败: %w", err)
		}
	}

	req, err := ReadRequest(conn, s.cfg.BufferSize, s.cfg.MaxBodySize)
	if err != nil {
		status, ok := parseErrorStatus(err)
		if !ok {
			s.stats.ioErrors.Add(1)
			return fmt.Errorf("读取请求失败: %w", err)
		}
		s.stats.parseErrors.Add(1)
		s.logger.Warnf("%s: 解析请求失败: %v", conn.RemoteAddr(), err)
		return s.writeResponse(conn, NewResponse(status))
	}

	res := s.mux.Serve(req)
	s.logger.Infof("%s %s %s -> %d", conn.RemoteAddr(), req.RawMethod, req.Path, res.Status)
	return s.writeResponse(conn, res)
}

func (s *Server) writeResponse(conn net.Conn, res *Response) error {
	n, err := res.WriteTo(conn)
	s.stats.responseWritten(res.Status, n)
	if err != nil {
		s.stats.ioErrors.Add(1)
		return fmt.Errorf("写入响应失败: %w", err)
	}
	return nil
}

// parseErrorStatus 解析错误对应的状态码，非解析错误（I/O）返回 false
func parseErrorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		return StatusPayloadTooLarge, true
	case errors.Is(err, ErrEmptyRequest),
		errors.Is(err, ErrMalformedRequestLine),
		errors.Is(err, ErrIncompleteBody):
		return StatusBadRequest, true
	default:
		return 0, false
	}
}
