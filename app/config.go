package main

import (
	"errors"
	"flag"
	"fmt"
	"time"
)

// Config 启动时解析一次，之后只读
type Config struct {
	Addr        string
	Directory   string
	MaxConns    int
	BufferSize  int
	MaxBodySize int
	ReadTimeout time.Duration
	StatusAddr  string
}

// parseConfig 解析命令行参数（不含程序名）
// 示例：./your_program.sh --directory /tmp/data/
// 没有 --directory 时取最后一个位置参数，都没有则用当前目录
func parseConfig(args []string) (Config, error) {
	var cfg Config
	fs := flag.NewFlagSet("http-server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", "127.0.0.1:4221", "listen address")
	fs.StringVar(&cfg.Directory, "directory", "", "directory to serve files from")
	fs.IntVar(&cfg.MaxConns, "max-conns", 128, "max concurrent connections, 0 for unlimited")
	fs.IntVar(&cfg.BufferSize, "buffer-size", 1024, "size of the initial request read")
	fs.IntVar(&cfg.MaxBodySize, "max-body", 10<<20, "max request body size, 0 for unlimited")
	fs.DurationVar(&cfg.ReadTimeout, "read-timeout", 0, "per-connection deadline, 0 for none")
	fs.StringVar(&cfg.StatusAddr, "status-addr", "", "address of the stats endpoint, empty to disable")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Directory == "" && fs.NArg() > 0 {
		cfg.Directory = fs.Arg(fs.NArg() - 1)
	}
	if cfg.Directory == "" {
		cfg.Directory = "."
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.MaxConns < 0 {
		errs = append(errs, fmt.Errorf("max-conns must be >= 0, got %d", c.MaxConns))
	}
	if c.BufferSize <= 0 {
		errs = append(errs, fmt.Errorf("buffer-size must be > 0, got %d", c.BufferSize))
	}
	if c.MaxBodySize < 0 {
		errs = append(errs, fmt.Errorf("max-body must be >= 0, got %d", c.MaxBodySize))
	}
	if c.ReadTimeout < 0 {
		errs = append(errs, fmt.Errorf("read-timeout must be >= 0, got %s", c.ReadTimeout))
	}
	return errors.Join(errs...)
}
