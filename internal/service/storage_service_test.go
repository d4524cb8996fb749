package service

import (
	"bytes"
	"context"
	"io"
	"mathtrack_backend/internal/config"
	"mathtrack_backend/internal/util"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalStorage(t *testing.T) *StorageService {
	t.Helper()
	cfg := &config.Config{Storage: config.StorageConfig{
		Type:              util.StorageLocal,
		LocalPath:         t.TempDir(),
		MaxUploadMB:       1,
		AllowedExtensions: []string{"pdf", "png", "jpg", "jpeg"},
	}}
	return NewStorageService(cfg)
}

func TestSolutionFilename(t *testing.T) {
	now := time.Date(2026, time.October, 17, 9, 5, 3, 0, time.UTC)
	name := SolutionFilename(3, []uint{11, 12, 13, 14}, "My Work.PDF", now)

	assert.True(t, strings.HasPrefix(name, "solutions/user3_ex11_12_13_20261017_090503_"), name)
	assert.True(t, strings.HasSuffix(name, ".pdf"))
}

func TestSaveSolutionLocal(t *testing.T) {
	s := newLocalStorage(t)
	content := []byte("%PDF-1.4\nhello")

	filename, err := s.SaveSolution(context.Background(), 1, []uint{5}, "hw.pdf", int64(len(content)), bytes.NewReader(content))
	require.NoError(t, err)

	rc, err := s.Open(context.Background(), filename)
	require.NoError(t, err)
	defer rc.Close()
	stored, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, stored)
	assert.Equal(t, "/uploads/"+filename, s.GetURL(filename))

	require.NoError(t, s.Delete(context.Background(), filename))
}

func TestSaveSolutionRejects(t *testing.T) {
	s := newLocalStorage(t)
	big := bytes.Repeat([]byte("a"), 2<<20)

	_, err := s.SaveSolution(context.Background(), 1, []uint{5}, "hw.pdf", int64(len(big)), bytes.NewReader(big))
	assert.ErrorIs(t, err, util.ErrFileTooLarge)

	_, err = s.SaveSolution(context.Background(), 1, []uint{5}, "hw.txt", 3, bytes.NewReader([]byte("abc")))
	assert.ErrorIs(t, err, util.ErrInvalidFileType)
}
