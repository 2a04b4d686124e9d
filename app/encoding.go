package main

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"strings"
)

// acceptsGzip 任意一个 accept-encoding 的值里包含 gzip 即可
func acceptsGzip(h Headers) bool {
	for _, v := range h.Values("accept-encoding") {
		if strings.Contains(v, "gzip") {
			return true
		}
	}
	return false
}

// gzipCompress 用默认压缩级别压缩 payload
func gzipCompress(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(payload); err != nil {
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := gw.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Bytes(), nil
}
