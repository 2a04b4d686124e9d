package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	logger := NewLogger(os.Stderr)

	// 解析命令行参数，获取 --directory 传入的目录
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Errorf("参数错误: %v", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Errorf("服务器启动失败: %v", err)
		os.Exit(1)
	}
}

// run 组装各组件并阻塞到收到 SIGINT/SIGTERM
func run(cfg Config, logger *Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := NewDirStore(cfg.Directory)
	if info, err := os.Stat(store.Root()); err != nil || !info.IsDir() {
		logger.Warnf("文件目录 %s 不可用，/files/ 请求将会失败", store.Root())
	} else {
		logger.Infof("文件目录 %s", store.Root())
	}

	// 初始化并注册路由
	mux := NewMux()
	registerRoutes(mux, store)

	stats := NewStats()
	if cfg.StatusAddr != "" {
		go func() {
			if err := serveStatus(ctx, cfg.StatusAddr, stats, logger); err != nil {
				logger.Errorf("状态接口退出: %v", err)
			}
		}()
	}

	srv := NewServer(cfg, mux, logger, stats)
	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	logger.Infof("服务器已关闭")
	return nil
}
