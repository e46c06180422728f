package store

import (
	"context"

	"github.com/catalog-chat/server/internal/catalog"
)

// Keys under which the admin data is stored.
const (
	KeyCompanyName     = "company_name"
	KeyKnowledgeBase   = "knowledge_base"
	KeyImageCatalog    = "image_catalog"
	KeyDocumentCatalog = "doc_catalog"
)

// Store is the key-value capability set the chat and admin flows depend on.
// Reads never fail: absent or unreadable data degrades to the default
// (text) or an empty catalog.
type Store interface {
	// ReadText returns the stored text, or def when nothing is stored.
	ReadText(ctx context.Context, key, def string) string

	// WriteText overwrites the stored text unconditionally.
	WriteText(ctx context.Context, key, value string) error

	// ReadCatalog returns the stored catalog, or an empty one on missing
	// or malformed data.
	ReadCatalog(ctx context.Context, key string) catalog.Catalog

	// WriteCatalog replaces the stored catalog.
	WriteCatalog(ctx context.Context, key string, c catalog.Catalog) error
}
