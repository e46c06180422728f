package api

import (
	"encoding/json"
	"net/http"

	errx "github.com/catalog-chat/server/internal/core/error"
	logx "github.com/catalog-chat/server/pkg/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}

func writeRawJSON(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		logx.Error().Err(err).Msg("failed to write response")
	}
}

// writeError maps err onto its AppError status and safe message. Details of
// server-side failures only reach the log.
func writeError(w http.ResponseWriter, r *http.Request, err error) int {
	appErr := errx.From(err)
	if appErr.Status >= http.StatusInternalServerError {
		logx.Error().
			Err(appErr.Err).
			Str("request_id", requestIDFrom(r.Context())).
			Int("status", appErr.Status).
			Msg(appErr.Message)
	}
	writeJSON(w, appErr.Status, errorResponse{Error: appErr.Message})
	return appErr.Status
}
