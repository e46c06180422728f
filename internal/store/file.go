package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/catalog-chat/server/internal/catalog"
	logx "github.com/catalog-chat/server/pkg/logger"
)

// FileStore keeps text values in <key>.txt and catalogs in <key>.json
// under a single root directory.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) textPath(key string) string {
	return filepath.Join(s.root, key+".txt")
}

func (s *FileStore) catalogPath(key string) string {
	return filepath.Join(s.root, key+".json")
}

func (s *FileStore) ReadText(ctx context.Context, key, def string) string {
	path := s.textPath(key)
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logx.Warn().Err(err).Str("path", path).Msg("failed to read text value, using default")
		}
		return def
	}
	return strings.TrimSpace(string(b))
}

func (s *FileStore) WriteText(ctx context.Context, key, value string) error {
	path := s.textPath(key)
	if err := writeFileAtomic(path, []byte(value)); err != nil {
		logx.Error().Err(err).Str("path", path).Msg("failed to write text value")
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) ReadCatalog(ctx context.Context, key string) catalog.Catalog {
	path := s.catalogPath(key)
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logx.Warn().Err(err).Str("path", path).Msg("failed to read catalog, using empty catalog")
		}
		return catalog.Catalog{}
	}
	var c catalog.Catalog
	if err := json.Unmarshal(b, &c); err != nil {
		logx.Warn().Err(err).Str("path", path).Msg("malformed catalog, using empty catalog")
		return catalog.Catalog{}
	}
	if c == nil {
		return catalog.Catalog{}
	}
	return c
}

func (s *FileStore) WriteCatalog(ctx context.Context, key string, c catalog.Catalog) error {
	if c == nil {
		c = catalog.Catalog{}
	}
	b, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	path := s.catalogPath(key)
	if err := writeFileAtomic(path, b); err != nil {
		logx.Error().Err(err).Str("path", path).Msg("failed to write catalog")
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// writeFileAtomic replaces path via a temp file in the same directory so
// readers never observe a half-written file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var _ Store = (*FileStore)(nil)
