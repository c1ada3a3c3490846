package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Provider 定义了封面图等上传文件的存储接口。
// 返回的文件名是保存在文章文档上的引用，删除文章不会级联删除文件。
type Provider interface {
	// Save 保存上传的文件内容，返回生成的文件名。
	Save(reader io.Reader, originalName string) (string, error)
	// BaseDir 返回文件的物理存储目录，用于静态路由挂载。
	BaseDir() string
}

// LocalProvider 实现了 Provider 接口，把上传文件写入本机磁盘。
type LocalProvider struct {
	baseDir string
}

// NewLocalProvider 是 LocalProvider 的构造函数，确保存储目录存在。
func NewLocalProvider(baseDir string) (*LocalProvider, error) {
	if baseDir == "" {
		baseDir = "data/uploads"
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &LocalProvider{baseDir: baseDir}, nil
}

// Save 把文件内容写入磁盘。文件名使用 UUID 重新生成，仅保留原始扩展名，
// 避免路径穿越和重名覆盖。
func (p *LocalProvider) Save(reader io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	filename := uuid.New().String() + ext

	targetPath := filepath.Join(p.baseDir, filename)
	destFile, err := os.Create(targetPath)
	if err != nil {
		return "", fmt.Errorf("无法创建目标文件: %w", err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, reader); err != nil {
		return "", fmt.Errorf("写入文件内容失败: %w", err)
	}

	// 确保数据写入磁盘
	if err := destFile.Sync(); err != nil {
		return "", fmt.Errorf("同步文件到磁盘失败: %w", err)
	}

	return filename, nil
}

// BaseDir 返回物理存储目录。
func (p *LocalProvider) BaseDir() string {
	return p.baseDir
}
