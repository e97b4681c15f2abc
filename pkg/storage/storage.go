package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("storage: object not found")
)

const (
	inputsPrefix  = "inputs"
	outputsPrefix = "outputs"
)

// FileStore persists uploads and rendered artifacts onto the local
// filesystem below a single root directory.
type FileStore struct {
	basePath string
}

type Object struct {
	Key  string
	Path string

	Size    int64
	ModTime time.Time
}

func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)

	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}

	if abs, err := filepath.Abs(basePath); err == nil {
		basePath = abs
	}

	for _, dir := range []string{inputsPrefix, outputsPrefix} {
		if err := os.MkdirAll(filepath.Join(basePath, dir), 0o755); err != nil {
			return nil, fmt.Errorf("storage: ensure base path: %w", err)
		}
	}

	return &FileStore{basePath: basePath}, nil
}

func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}

	return s.basePath
}

// InputKey names the upload of a job; the original extension is kept so
// extractors can detect the format.
func InputKey(jobID, ext string) string {
	return inputsPrefix + "/" + jobID + strings.ToLower(ext)
}

// ArtifactKey names the rendered output of a job for one language and
// format. It is deterministic so downloads need no side table.
func ArtifactKey(jobID, language, format string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	format = strings.ToLower(strings.TrimSpace(format))

	return fmt.Sprintf("%s/translated_%s_%s.%s", outputsPrefix, language, jobID, format)
}

// Put writes the content produced by fn at key. The content is staged in a
// temporary file and renamed into place only when fn succeeds, so a failed
// write never leaves a partial object behind.
func (s *FileStore) Put(ctx context.Context, key string, fn func(w io.Writer) error) (*Object, error) {
	if s == nil {
		return nil, errors.New("storage: no store configured")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cleanKey, err := sanitizeKey(key)

	if err != nil {
		return nil, err
	}

	fullPath := s.path(cleanKey)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure directory: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(fullPath), ".tmp-*")

	if err != nil {
		return nil, fmt.Errorf("storage: create file: %w", err)
	}

	tmp := f.Name()

	if err := fn(f); err != nil {
		f.Close()
		os.Remove(tmp)

		return nil, err
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("storage: write file: %w", err)
	}

	if err := os.Rename(tmp, fullPath); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("storage: commit file: %w", err)
	}

	return s.Stat(cleanKey)
}

// Upload stores a source document and returns the handle the pipeline owns
// until it releases it.
func (s *FileStore) Upload(ctx context.Context, key, name, contentType string, r io.Reader) (*Handle, error) {
	obj, err := s.Put(ctx, key, func(w io.Writer) error {
		_, err := io.Copy(w, r)
		return err
	})

	if err != nil {
		return nil, err
	}

	return &Handle{
		Key:  obj.Key,
		Name: name,

		ContentType: contentType,

		store: s,
	}, nil
}

func (s *FileStore) Stat(key string) (*Object, error) {
	cleanKey, err := sanitizeKey(key)

	if err != nil {
		return nil, err
	}

	fullPath := s.path(cleanKey)

	info, err := os.Stat(fullPath)

	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	if info.IsDir() {
		return nil, ErrNotFound
	}

	return &Object{
		Key:  cleanKey,
		Path: fullPath,

		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

func (s *FileStore) Exists(key string) bool {
	_, err := s.Stat(key)
	return err == nil
}

func (s *FileStore) Open(key string) (io.ReadCloser, error) {
	obj, err := s.Stat(key)

	if err != nil {
		return nil, err
	}

	return os.Open(obj.Path)
}

// Delete removes an object. Deleting a missing object is not an error.
func (s *FileStore) Delete(key string) error {
	cleanKey, err := sanitizeKey(key)

	if err != nil {
		return err
	}

	if err := os.Remove(s.path(cleanKey)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: delete file: %w", err)
	}

	return nil
}

func (s *FileStore) path(cleanKey string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)

	if key == "" {
		return "", errors.New("storage: key is required")
	}

	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")

	cleaned := filepath.ToSlash(filepath.Clean(key))

	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}

	return cleaned, nil
}
