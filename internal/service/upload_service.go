package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ezlab-crm/internal/config"
	"github.com/ezlab-crm/internal/constants"

	"github.com/google/uuid"
)

// UploadService 商品图片存储服务
type UploadService struct {
	cfg config.UploadConfig
}

// NewUploadService 创建文件上传服务实例
func NewUploadService(cfg config.UploadConfig) *UploadService {
	return &UploadService{cfg: cfg}
}

// MaxImages 单个商品允许的图片数量
func (s *UploadService) MaxImages() int {
	if s.cfg.MaxImages <= 0 {
		return 5
	}
	return s.cfg.MaxImages
}

// SaveImage 校验并保存图片，返回以正斜杠分隔的访问路径
func (s *UploadService) SaveImage(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", ErrImageRequired
	}
	if s.cfg.MaxSize > 0 && file.Size > s.cfg.MaxSize {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, file.Filename, s.cfg.MaxSize)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !isAllowedExtension(ext, s.cfg.AllowedExtensions) {
		return "", fmt.Errorf("%w: extension %q", ErrInvalidFileType, ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	if contentType := http.DetectContentType(head[:n]); !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: content type %s", ErrInvalidFileType, contentType)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	filename := uuid.New().String() + ext
	dir := filepath.Join(s.cfg.Dir, constants.UploadImageFolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return path.Join(constants.UploadURLPrefix, constants.UploadImageFolder, filename), nil
}

// RemoveFiles 删除已存储的图片文件，文件不存在视为成功
func (s *UploadService) RemoveFiles(urls []string) error {
	var errs []error
	for _, url := range urls {
		target, ok := s.ResolvePath(url)
		if !ok {
			errs = append(errs, fmt.Errorf("refuse to remove path outside upload dir: %s", url))
			continue
		}
		if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResolvePath 将访问路径映射为上传目录下的文件路径
func (s *UploadService) ResolvePath(url string) (string, bool) {
	cleaned := path.Clean("/" + strings.ReplaceAll(strings.TrimSpace(url), "\\", "/"))
	prefix := constants.UploadURLPrefix + "/"
	if !strings.HasPrefix(cleaned, prefix) {
		return "", false
	}
	rel := strings.TrimPrefix(cleaned, prefix)
	if rel == "" {
		return "", false
	}
	return filepath.Join(s.cfg.Dir, filepath.FromSlash(rel)), true
}

func isAllowedExtension(ext string, allowed []string) bool {
	if ext == "" {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for _, item := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(item))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if ext == normalized {
			return true
		}
	}
	return false
}
