package storage_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrianliechti/studio/pkg/storage"

	"github.com/stretchr/testify/require"
)

func TestArtifactKey(t *testing.T) {
	require.Equal(t, "outputs/translated_spanish_abc.docx", storage.ArtifactKey("abc", "Spanish", "DOCX"))
	require.Equal(t, "inputs/abc.pdf", storage.InputKey("abc", ".PDF"))
}

func TestPut(t *testing.T) {
	ctx := context.Background()

	s, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	obj, err := s.Put(ctx, "outputs/a.txt", func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	})

	require.NoError(t, err)
	require.Equal(t, "outputs/a.txt", obj.Key)
	require.EqualValues(t, 5, obj.Size)
	require.True(t, s.Exists("outputs/a.txt"))

	r, err := s.Open("outputs/a.txt")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestPutFailureLeavesNothing(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	_, err = s.Put(ctx, "outputs/b.pdf", func(w io.Writer) error {
		io.WriteString(w, "partial")
		return errors.New("render failed")
	})

	require.EqualError(t, err, "render failed")
	require.False(t, s.Exists("outputs/b.pdf"))

	entries, err := os.ReadDir(filepath.Join(dir, "outputs"))
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSanitizeKey(t *testing.T) {
	s, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Stat("../etc/passwd")
	require.Error(t, err)

	_, err = s.Stat("outputs/missing.txt")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Delete("outputs/missing.txt"))
}

func TestHandleRelease(t *testing.T) {
	ctx := context.Background()

	s, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	h, err := s.Upload(ctx, storage.InputKey("job", ".txt"), "book.txt", "text/plain", strings.NewReader("content"))
	require.NoError(t, err)
	require.Equal(t, ".txt", h.Ext())
	require.True(t, s.Exists(h.Key))

	require.NoError(t, h.Release())
	require.False(t, s.Exists(h.Key))
	require.NoError(t, h.Release())
}
