package media

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/catalog-chat/server/internal/catalog"
	errx "github.com/catalog-chat/server/internal/core/error"
	"github.com/catalog-chat/server/internal/metrics"
	"github.com/catalog-chat/server/internal/store"
	logx "github.com/catalog-chat/server/pkg/logger"
)

// Directory layout under the static root, mirrored in the served URLs.
const (
	UploadsDir   = "uploads"
	ImagesDir    = "product_images"
	DocumentsDir = "documents"

	LogoFilename    = "logo.png"
	FaviconFilename = "favicon.png"
)

var (
	ImageExtensions    = []string{"png", "jpg", "jpeg", "gif"}
	DocumentExtensions = []string{"pdf", "docx", "txt"}
)

// Kind describes one catalogued media collection.
type Kind struct {
	Name       string
	Dir        string
	CatalogKey string
	Extensions []string
	// SniffPrefix, when set, must prefix the sniffed content type.
	SniffPrefix string
}

var (
	Images = Kind{
		Name:        "image",
		Dir:         ImagesDir,
		CatalogKey:  store.KeyImageCatalog,
		Extensions:  ImageExtensions,
		SniffPrefix: "image/",
	}
	Documents = Kind{
		Name:       "document",
		Dir:        DocumentsDir,
		CatalogKey: store.KeyDocumentCatalog,
		Extensions: DocumentExtensions,
	}
)

// Library stores uploaded files under the static root and keeps the
// matching catalog in the Store. A file is written before its catalog entry
// and removed together with it, so catalog keys always name stored files.
type Library struct {
	store store.Store
	root  string
}

// NewLibrary creates the upload directories under staticRoot.
func NewLibrary(s store.Store, staticRoot string) (*Library, error) {
	for _, dir := range []string{UploadsDir, ImagesDir, DocumentsDir} {
		if err := os.MkdirAll(filepath.Join(staticRoot, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create %s dir: %w", dir, err)
		}
	}
	return &Library{store: s, root: staticRoot}, nil
}

// Root returns the static root directory.
func (l *Library) Root() string {
	return l.root
}

// Catalog returns the current catalog of kind k.
func (l *Library) Catalog(ctx context.Context, k Kind) catalog.Catalog {
	return l.store.ReadCatalog(ctx, k.CatalogKey)
}

// Add stores the upload named filename and records it with tags. It returns
// the sanitized name the file was stored under.
func (l *Library) Add(ctx context.Context, k Kind, filename string, r io.Reader, tags string) (string, error) {
	tags = strings.TrimSpace(tags)
	if tags == "" {
		return "", errx.BadRequest(fmt.Sprintf("missing %s tags", k.Name))
	}
	if !AllowedExtension(filename, k.Extensions) {
		return "", errx.Unsupported(fmt.Sprintf("%s type not allowed, use one of: %s", k.Name, strings.Join(k.Extensions, ", ")))
	}
	name := SanitizeFilename(filename)
	if name == "" || !AllowedExtension(name, k.Extensions) {
		return "", errx.BadRequest("invalid file name")
	}

	br := bufio.NewReader(r)
	if k.SniffPrefix != "" {
		head, _ := br.Peek(512)
		if ct := http.DetectContentType(head); !strings.HasPrefix(ct, k.SniffPrefix) {
			return "", errx.Unsupported(fmt.Sprintf("file content is %s, not an %s", ct, k.Name))
		}
	}

	path := filepath.Join(l.root, k.Dir, name)
	if err := writeFile(path, br); err != nil {
		logx.Error().Err(err).Str("path", path).Msg("failed to store upload")
		return "", errx.Internal(err)
	}

	c := l.store.ReadCatalog(ctx, k.CatalogKey)
	c[name] = tags
	if err := l.store.WriteCatalog(ctx, k.CatalogKey, c); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			logx.Warn().Err(rmErr).Str("path", path).Msg("failed to roll back upload")
		}
		return "", errx.Internal(err)
	}

	metrics.CatalogChanges.WithLabelValues(k.Name, "add").Inc()
	logx.Info().Str("kind", k.Name).Str("file", name).Msg("catalog entry added")
	return name, nil
}

// Remove deletes the catalog entry and its file. A missing file is logged
// but does not fail the removal.
func (l *Library) Remove(ctx context.Context, k Kind, filename string) error {
	c := l.store.ReadCatalog(ctx, k.CatalogKey)
	if _, ok := c[filename]; !ok {
		return errx.NotFound(fmt.Sprintf("%s not found", k.Name))
	}
	delete(c, filename)
	if err := l.store.WriteCatalog(ctx, k.CatalogKey, c); err != nil {
		return errx.Internal(err)
	}

	path := filepath.Join(l.root, k.Dir, filepath.Base(filename))
	if err := os.Remove(path); err != nil {
		logx.Warn().Err(err).Str("path", path).Msg("failed to delete catalogued file")
	}

	metrics.CatalogChanges.WithLabelValues(k.Name, "remove").Inc()
	logx.Info().Str("kind", k.Name).Str("file", filename).Msg("catalog entry removed")
	return nil
}

// Missing lists catalogued filenames whose file is absent from disk.
func (l *Library) Missing(ctx context.Context, k Kind) []string {
	var missing []string
	for _, name := range l.Catalog(ctx, k).Filenames() {
		if _, err := os.Stat(filepath.Join(l.root, k.Dir, name)); errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, name)
		}
	}
	return missing
}

// SaveLogo stores the uploaded logo as PNG and regenerates the circular
// favicon from it.
func (l *Library) SaveLogo(ctx context.Context, filename string, r io.Reader) error {
	if !AllowedExtension(filename, ImageExtensions) {
		return errx.Unsupported("logo must be a png, jpg, jpeg or gif image")
	}
	img, err := decodeImage(r)
	if err != nil {
		return errx.BadRequest("logo is not a readable image")
	}

	var logo, favicon bytes.Buffer
	if err := encodePNG(&logo, img); err != nil {
		return errx.Internal(err)
	}
	if err := encodePNG(&favicon, CircularFavicon(img, FaviconSize)); err != nil {
		return errx.Internal(err)
	}

	if err := writeFile(filepath.Join(l.root, UploadsDir, LogoFilename), &logo); err != nil {
		return errx.Internal(err)
	}
	if err := writeFile(filepath.Join(l.root, UploadsDir, FaviconFilename), &favicon); err != nil {
		return errx.Internal(err)
	}
	logx.Info().Msg("logo and favicon updated")
	return nil
}

// LogoURL returns the served URL of the logo, or "" when none is stored.
func (l *Library) LogoURL() string {
	return l.uploadURL(LogoFilename)
}

// FaviconURL returns the served URL of the favicon, or "" when none is stored.
func (l *Library) FaviconURL() string {
	return l.uploadURL(FaviconFilename)
}

func (l *Library) uploadURL(name string) string {
	if _, err := os.Stat(filepath.Join(l.root, UploadsDir, name)); err != nil {
		return ""
	}
	return "/static/" + UploadsDir + "/" + name
}

func writeFile(path string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
