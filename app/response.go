package main

import (
	"bytes"
	"io"
	"strconv"
)

// CRLF \r\n 是两个字符组成的序列：
// \r：carriage return，中文通常叫 回车
// \n：line feed，中文通常叫 换行
const CRLF = "\r\n"

const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusBadRequest          = 400
	StatusNotFound            = 404
	StatusMethodNotAllowed    = 405
	StatusPayloadTooLarge     = 413
	StatusInternalServerError = 500
)

var statusText = map[int]string{
	StatusOK:                  "OK",
	StatusCreated:             "Created",
	StatusBadRequest:          "Bad Request",
	StatusNotFound:            "Not Found",
	StatusMethodNotAllowed:    "Method Not Allowed",
	StatusPayloadTooLarge:     "Payload Too Large",
	StatusInternalServerError: "Internal Server Error",
}

// StatusText 返回状态码对应的原因短语
func StatusText(code int) string {
	if text, ok := statusText[code]; ok {
		return text
	}
	return "Status " + strconv.Itoa(code)
}

// Response 由 Handler 构造，写出后即丢弃
type Response struct {
	Status  int
	Headers Headers
	Body    []byte
}

// NewResponse 创建一个没有头、没有 body 的响应
func NewResponse(status int) *Response {
	return &Response{Status: status}
}

// AddHeader 追加一个响应头，保持添加顺序
func (r *Response) AddHeader(name, value string) *Response {
	r.Headers = append(r.Headers, Header{Name: name, Value: value})
	return r
}

// contentResponse 带 Content-Type 和按字节计算的 Content-Length
func contentResponse(status int, contentType string, body []byte) *Response {
	res := NewResponse(status).
		AddHeader("Content-Type", contentType).
		AddHeader("Content-Length", strconv.Itoa(len(body)))
	res.Body = body
	return res
}

// WriteTo 拼好整个报文后一次写出
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("HTTP/1.1 " + strconv.Itoa(r.Status) + " " + StatusText(r.Status) + CRLF)
	for _, h := range r.Headers {
		buf.WriteString(h.Name + ": " + h.Value + CRLF)
	}
	buf.WriteString(CRLF)
	buf.Write(r.Body)

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}
