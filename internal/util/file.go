package util

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// 允许的 MIME 类型，与扩展名白名单对应
var allowedMimeTypes = map[string][]string{
	"pdf":  {MimePDF},
	"png":  {"image/png"},
	"jpg":  {"image/jpeg"},
	"jpeg": {"image/jpeg"},
}

// FileExtension 小写扩展名（不含点）
func FileExtension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// AllowedFile 检查扩展名是否在白名单中
func AllowedFile(filename string, allowed []string) bool {
	ext := FileExtension(filename)
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimPrefix(a, "."), ext) {
			return true
		}
	}
	return false
}

// ValidateUpload 校验文件名、大小和内容类型
func ValidateUpload(filename string, size, maxBytes int64, allowed []string, reader io.Reader) (string, error) {
	if filename == "" {
		return "", ErrNoFile
	}
	if !AllowedFile(filename, allowed) {
		return "", ErrInvalidFileType
	}
	if size > maxBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, size, maxBytes)
	}

	mimeType, err := DetectMimeType(reader)
	if err != nil {
		return "", err
	}
	for _, m := range allowedMimeTypes[FileExtension(filename)] {
		if mimeType == m {
			return mimeType, nil
		}
	}
	return mimeType, fmt.Errorf("%w: content is %s", ErrInvalidFileType, mimeType)
}

// DetectMimeType 读取前 512 字节判断 MIME 类型
func DetectMimeType(reader io.Reader) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	return http.DetectContentType(buffer[:n]), nil
}
