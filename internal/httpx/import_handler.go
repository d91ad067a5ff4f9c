package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type Presigner interface {
	PresignUpload(ctx context.Context, name string) (url string, expires time.Time, err error)
}

// ImportHandler issues presigned upload URLs. No object exists until the
// client itself performs the PUT.
type ImportHandler struct {
	Signer Presigner
}

func (h *ImportHandler) Register(r chi.Router) {
	r.Get("/import", h.importURL)
}

func (h *ImportHandler) importURL(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	name := r.URL.Query().Get("name")
	if name == "" {
		writeMessage(w, http.StatusBadRequest, "Missing name")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	url, expires, err := h.Signer.PresignUpload(ctx, name)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"url":        url,
		"expires_at": expires.UTC().Format(time.RFC3339),
	})
}
