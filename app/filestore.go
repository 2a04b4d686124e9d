package main

import (
	"os"
	"path/filepath"
)

// FileStore 是 /files/ 路由读写文件的地方
type FileStore interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
}

// DirStore 以一个目录为根的 FileStore。
// 不加锁：同一个文件的并发 GET/POST 可能读到写了一半的内容。
type DirStore struct {
	root string
}

func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

func (s *DirStore) Root() string {
	return s.root
}

func (s *DirStore) Read(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.root, name))
}

// Write 创建或截断文件
func (s *DirStore) Write(name string, data []byte) error {
	return os.WriteFile(filepath.Join(s.root, name), data, 0o644)
}
