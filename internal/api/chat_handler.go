package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"google.golang.org/genai"

	errx "github.com/catalog-chat/server/internal/core/error"
	"github.com/catalog-chat/server/internal/metrics"
)

const maxChatBodyBytes = 1 << 20

// ChatRequest is the body posted by the widget. History is forwarded to the
// model as-is, in order.
type ChatRequest struct {
	History []*genai.Content `json:"history"`
}

// chatHandler answers with the raw candidate content ({role, parts}) so the
// widget can parse the directive tokens itself.
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	defer func() {
		metrics.ChatRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	}()

	if !s.chat.Configured() {
		status = writeError(w, r, errx.Unconfigured())
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes)).Decode(&req); err != nil {
		status = writeError(w, r, errx.BadRequest("invalid JSON body"))
		return
	}

	content, err := s.chat.Reply(r.Context(), req.History)
	if err != nil {
		status = writeError(w, r, err)
		return
	}
	writeRawJSON(w, http.StatusOK, content)
}
