package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// 解析阶段的错误，连接层据此决定回 400 还是 413
var (
	ErrEmptyRequest         = errors.New("empty request")
	ErrMalformedRequestLine = errors.New("malformed request line")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrIncompleteBody       = errors.New("incomplete request body")
)

// Method 只区分 GET / POST，其余一律视为不支持（不是解析错误）
type Method int

const (
	MethodUnsupported Method = iota
	MethodGet
	MethodPost
)

func parseMethod(token string) Method {
	switch token {
	case "GET":
		return MethodGet
	case "POST":
		return MethodPost
	default:
		return MethodUnsupported
	}
}

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodPost:
		return "POST"
	default:
		return "UNSUPPORTED"
	}
}

// Header 一个请求头，Name 已转小写
type Header struct {
	Name  string
	Value string
}

// Headers 按到达顺序保存，允许重复
type Headers []Header

// Get 返回第一个同名头的值，name 大小写不敏感
func (h Headers) Get(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, hdr := range h {
		if hdr.Name == name {
			return hdr.Value, true
		}
	}
	return "", false
}

// Values 返回所有同名头的值
func (h Headers) Values(name string) []string {
	name = strings.ToLower(name)
	var values []string
	for _, hdr := range h {
		if hdr.Name == name {
			values = append(values, hdr.Value)
		}
	}
	return values
}

// Request 表示一个解析后的请求，构造后不再修改
type Request struct {
	Method    Method
	RawMethod string
	Path      string
	Version   string
	Headers   Headers
	Body      []byte

	// 第一次读到的内容里是否出现了请求头结束的空行
	headerDone bool
}

// ContentLength 返回合法的 content-length，没有或非法时 ok 为 false
func (r *Request) ContentLength() (int, bool) {
	v, ok := r.Headers.Get("content-length")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// cutLine 按 \n 切出一行并去掉行尾的 \r
func cutLine(b []byte) (line, rest []byte) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil
	}
	return bytes.TrimSuffix(b[:i], []byte("\r")), b[i+1:]
}

// decodeText 宽松解码，每个非法的 UTF-8 序列替换成一个 U+FFFD
func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
			b = b[invalidLen(b):]
			continue
		}
		sb.Write(b[:size])
		b = b[size:]
	}
	return sb.String()
}

// invalidLen 返回非法序列开头可以合并成一个替换字符的字节数：
// 前导字节加上后面仍然合法的续字节，例如 "\xe2\x82" 算一个
func invalidLen(b []byte) int {
	n := 0
	lo, hi := byte(0x80), byte(0xBF)
	switch lead := b[0]; {
	case lead >= 0xC2 && lead <= 0xDF:
		n = 2
	case lead == 0xE0:
		n, lo = 3, 0xA0
	case lead == 0xED:
		n, hi = 3, 0x9F
	case lead >= 0xE1 && lead <= 0xEF:
		n = 3
	case lead == 0xF0:
		n, lo = 4, 0x90
	case lead == 0xF4:
		n, hi = 4, 0x8F
	case lead >= 0xF1 && lead <= 0xF3:
		n = 4
	default:
		return 1
	}

	i := 1
	for ; i < n && i < len(b); i++ {
		if i > 1 {
			lo, hi = 0x80, 0xBF
		}
		if b[i] < lo || b[i] > hi {
			break
		}
	}
	return i
}

// ParseRequest 把第一次读到的字节解析成 Request。
// 请求行和请求头按文本处理，请求体保留空行之后的原始字节；
// 有 content-length 时多余的字节会被截掉。
func ParseRequest(buf []byte) (*Request, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyRequest
	}

	line, rest := cutLine(buf)
	fields := strings.Fields(decodeText(line))
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequestLine, decodeText(line))
	}

	req := &Request{
		Method:    parseMethod(fields[0]),
		RawMethod: fields[0],
		Path:      fields[1],
		Version:   "HTTP/1.1",
	}
	if len(fields) > 2 {
		req.Version = fields[2]
	}

	// 读取请求头，直到第一个空行
	for len(rest) > 0 {
		line, rest = cutLine(rest)
		if len(line) == 0 {
			req.headerDone = true
			req.Body = bytes.Clone(rest)
			break
		}
		// 只认 ": "，其它格式的行直接丢掉
		name, value, ok := strings.Cut(decodeText(line), ": ")
		if !ok {
			continue
		}
		req.Headers = append(req.Headers, Header{Name: strings.ToLower(name), Value: value})
	}

	if cl, ok := req.ContentLength(); ok && len(req.Body) > cl {
		req.Body = req.Body[:cl]
	}
	return req, nil
}

// ReadRequest 从 r 读一次（最多 bufSize 字节）并解析；
// 如果 content-length 声明的请求体还没读完，继续读满，maxBody 为 0 表示不限制。
func ReadRequest(r io.Reader, bufSize, maxBody int) (*Request, error) {
	buf := make([]byte, bufSize)
	n, err := r.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read request: %w", err)
	}

	req, err := ParseRequest(buf[:n])
	if err != nil {
		return nil, err
	}

	cl, ok := req.ContentLength()
	if !ok {
		return req, nil
	}
	if maxBody > 0 && cl > maxBody {
		return nil, fmt.Errorf("%w: content-length %d exceeds %d", ErrBodyTooLarge, cl, maxBody)
	}
	// 请求头没读完时，连接里接下来的字节还是请求头，不能当作 body
	if !req.headerDone && cl > 0 {
		return nil, fmt.Errorf("%w: header block exceeds the first read", ErrIncompleteBody)
	}
	if missing := cl - len(req.Body); missing > 0 {
		// 按实际到达的字节增长，不按客户端声明的长度预分配
		body := bytes.NewBuffer(req.Body)
		if _, err := io.CopyN(body, r, int64(missing)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncompleteBody, err)
		}
		req.Body = body.Bytes()
	}
	return req, nil
}
