package util

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allowed = []string{"pdf", "png", "jpg", "jpeg"}

func TestAllowedFile(t *testing.T) {
	assert.True(t, AllowedFile("solution.PDF", allowed))
	assert.True(t, AllowedFile("scan.jpeg", allowed))
	assert.False(t, AllowedFile("notes.docx", allowed))
	assert.False(t, AllowedFile("pdf", allowed))
	assert.Equal(t, "png", FileExtension("a.b.PNG"))
}

func TestValidateUpload(t *testing.T) {
	pdf := []byte("%PDF-1.7\n%âãÏÓ\n1 0 obj\n")

	mime, err := ValidateUpload("hw.pdf", int64(len(pdf)), 5<<20, allowed, bytes.NewReader(pdf))
	require.NoError(t, err)
	assert.Equal(t, MimePDF, mime)

	_, err = ValidateUpload("", 1, 5<<20, allowed, bytes.NewReader(pdf))
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = ValidateUpload("hw.exe", 1, 5<<20, allowed, bytes.NewReader(pdf))
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, err = ValidateUpload("hw.pdf", 6<<20, 5<<20, allowed, bytes.NewReader(pdf))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	// 扩展名与内容不符
	_, err = ValidateUpload("hw.png", int64(len(pdf)), 5<<20, allowed, bytes.NewReader(pdf))
	assert.True(t, errors.Is(err, ErrInvalidFileType))
}
