package main

import "strings"

// HandlerFunc 路由处理函数类型
type HandlerFunc func(req *Request) *Response

type route struct {
	pattern string
	prefix  bool
	handler HandlerFunc
}

func (r route) match(path string) bool {
	if r.prefix {
		return strings.HasPrefix(path, r.pattern)
	}
	return path == r.pattern
}

// Mux 非 net/http 版本的极简路由器
// 按注册顺序逐个匹配，第一个命中的路由生效
type Mux struct {
	routes []route
}

// NewMux 创建一个新的路由器
func NewMux() *Mux {
	return &Mux{}
}

// Handle 注册精确匹配的路由，例如 "/"、"/user-agent"
func (m *Mux) Handle(path string, handler HandlerFunc) {
	m.routes = append(m.routes, route{pattern: path, handler: handler})
}

// HandlePrefix 注册前缀匹配的路由，例如 "/echo/"、"/files/"
func (m *Mux) HandlePrefix(prefix string, handler HandlerFunc) {
	m.routes = append(m.routes, route{pattern: prefix, prefix: true, handler: handler})
}

// Serve 分发到第一个匹配的 Handler
// 如果没有匹配的路由，则返回 404
func (m *Mux) Serve(req *Request) *Response {
	for _, r := range m.routes {
		if r.match(req.Path) {
			return r.handler(req)
		}
	}
	return NewResponse(StatusNotFound)
}
