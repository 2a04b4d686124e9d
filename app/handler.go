package main

import (
	"strconv"
	"strings"
)

// pathSegment 返回 path 按 "/" 切分后的第 n 段，不存在时返回空串
// "/echo/abc/def" -> ["", "echo", "abc", "def"]
func pathSegment(path string, n int) string {
	splits := strings.Split(path, "/")
	if n < len(splits) {
		return splits[n]
	}
	return ""
}

// 根路径 Handler：返回 200 OK，无 body
func rootHandler(req *Request) *Response {
	return NewResponse(StatusOK)
}

// /echo/<text> Handler
func echoHandler(req *Request) *Response {
	payload := []byte(pathSegment(req.Path, 2))

	// gzip 压缩协商
	if !acceptsGzip(req.Headers) {
		return contentResponse(StatusOK, "text/plain", payload)
	}

	compressed, err := gzipCompress(payload)
	if err != nil {
		return NewResponse(StatusInternalServerError)
	}
	res := NewResponse(StatusOK).
		AddHeader("Content-Type", "text/plain").
		AddHeader("Content-Encoding", "gzip").
		AddHeader("Content-Length", strconv.Itoa(len(compressed)))
	res.Body = compressed
	return res
}

// /user-agent Handler
func userAgentHandler(req *Request) *Response {
	userAgent, ok := req.Headers.Get("user-agent")
	if !ok {
		return NewResponse(StatusBadRequest)
	}
	return contentResponse(StatusOK, "text/plain", []byte(userAgent))
}

// fileName 取 /files/ 之后的最后一段作为文件名；
// 路径中出现 ".." 段时拒绝
func fileName(path string) (string, bool) {
	segments := strings.Split(strings.TrimPrefix(path, "/files/"), "/")
	for _, seg := range segments {
		if seg == ".." {
			return "", false
		}
	}
	return segments[len(segments)-1], true
}

// filesHandler 返回 /files/* Handler，读写都落在 store 上
func filesHandler(store FileStore) HandlerFunc {
	return func(req *Request) *Response {
		if req.Method != MethodGet && req.Method != MethodPost {
			return NewResponse(StatusMethodNotAllowed)
		}
		name, ok := fileName(req.Path)
		if !ok {
			return NewResponse(StatusBadRequest)
		}
		// 目录本身不是文件：读按 404，写按 500，不碰文件系统
		isDir := name == "" || name == "."

		// 写文件
		if req.Method == MethodPost {
			if isDir {
				return NewResponse(StatusInternalServerError)
			}
			if err := store.Write(name, req.Body); err != nil {
				return NewResponse(StatusInternalServerError)
			}
			return NewResponse(StatusCreated)
		}

		// 读文件，任何失败都按 404 处理
		if isDir {
			return NewResponse(StatusNotFound)
		}
		contentBytes, err := store.Read(name)
		if err != nil {
			return NewResponse(StatusNotFound)
		}
		return contentResponse(StatusOK, "application/octet-stream", contentBytes)
	}
}

// registerRoutes 注册所有路由到 Mux，顺序即优先级
func registerRoutes(m *Mux, store FileStore) {
	// 根路径 "/"
	m.Handle("/", rootHandler)
	// /echo/*
	m.HandlePrefix("/echo/", echoHandler)
	// /user-agent
	m.Handle("/user-agent", userAgentHandler)
	// /files/*
	m.HandlePrefix("/files/", filesHandler(store))
}
