package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/catalog-chat/server/internal/catalog"
	errx "github.com/catalog-chat/server/internal/core/error"
	"github.com/catalog-chat/server/internal/media"
	"github.com/catalog-chat/server/internal/store"
)

const defaultWidgetName = "Virtual Assistant"

type settingsResponse struct {
	CompanyName      string          `json:"company_name"`
	Context          string          `json:"context"`
	LogoURL          string          `json:"logo_url,omitempty"`
	FaviconURL       string          `json:"favicon_url,omitempty"`
	ImageCatalog     catalog.Catalog `json:"image_catalog"`
	DocCatalog       catalog.Catalog `json:"doc_catalog"`
	MissingImages    []string        `json:"missing_images,omitempty"`
	MissingDocuments []string        `json:"missing_documents,omitempty"`
}

type widgetResponse struct {
	CompanyName string `json:"company_name"`
	LogoURL     string `json:"logo_url,omitempty"`
	FaviconURL  string `json:"favicon_url,omitempty"`
}

type uploadResponse struct {
	Filename string `json:"filename"`
	Tags     string `json:"tags"`
}

func (s *Server) getSettingsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeJSON(w, http.StatusOK, settingsResponse{
		CompanyName:      s.store.ReadText(ctx, store.KeyCompanyName, ""),
		Context:          s.store.ReadText(ctx, store.KeyKnowledgeBase, ""),
		LogoURL:          s.library.LogoURL(),
		FaviconURL:       s.library.FaviconURL(),
		ImageCatalog:     s.library.Catalog(ctx, media.Images),
		DocCatalog:       s.library.Catalog(ctx, media.Documents),
		MissingImages:    s.library.Missing(ctx, media.Images),
		MissingDocuments: s.library.Missing(ctx, media.Documents),
	})
}

// updateSettingsHandler overwrites company name and knowledge base, and
// replaces the logo when one is attached.
func (s *Server) updateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.parseForm(w, r); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.store.WriteText(ctx, store.KeyCompanyName, r.FormValue("company_name")); err != nil {
		writeError(w, r, errx.Internal(err))
		return
	}
	if err := s.store.WriteText(ctx, store.KeyKnowledgeBase, r.FormValue("context")); err != nil {
		writeError(w, r, errx.Internal(err))
		return
	}

	if file, header, err := r.FormFile("logo"); err == nil {
		defer file.Close()
		if header.Filename != "" {
			if err := s.library.SaveLogo(ctx, header.Filename, file); err != nil {
				writeError(w, r, err)
				return
			}
		}
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, r, errx.BadRequest("invalid logo upload"))
		return
	}

	s.getSettingsHandler(w, r)
}

func (s *Server) uploadHandler(kind media.Kind, fileField, tagsField string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.parseForm(w, r); err != nil {
			writeError(w, r, err)
			return
		}

		tags := strings.TrimSpace(r.FormValue(tagsField))
		file, header, err := r.FormFile(fileField)
		if err != nil || header.Filename == "" || tags == "" {
			if file != nil {
				file.Close()
			}
			writeError(w, r, errx.BadRequest("missing "+kind.Name+" file or tags"))
			return
		}
		defer file.Close()

		name, err := s.library.Add(r.Context(), kind, header.Filename, file, tags)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, uploadResponse{Filename: name, Tags: tags})
	}
}

func (s *Server) deleteHandler(kind media.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.library.Remove(r.Context(), kind, mux.Vars(r)["filename"]); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) widgetHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, widgetResponse{
		CompanyName: s.store.ReadText(r.Context(), store.KeyCompanyName, defaultWidgetName),
		LogoURL:     s.library.LogoURL(),
		FaviconURL:  s.library.FaviconURL(),
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "healthy",
		"configured": s.chat.Configured(),
	})
}

// parseForm accepts multipart and urlencoded bodies up to MaxUploadMB.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	limit := s.cfg.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	// ParseMultipartForm parses urlencoded bodies before reporting ErrNotMultipart.
	err := r.ParseMultipartForm(limit)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errx.New(err, http.StatusRequestEntityTooLarge, "upload too large")
	}
	return errx.BadRequest("invalid form body")
}
