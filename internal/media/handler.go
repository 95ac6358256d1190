package media

import (
	"io"
	"net/http"

	"travel-service/internal/shared/apperr"
	"travel-service/internal/shared/httpx"
)

const maxUpload = 50 << 20

var allowedPrefixes = map[string]bool{
	"uploads": true, "posts": true, "videos": true, "thumbnails": true, "profiles": true,
}

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		return apperr.Validation("multipart field \"file\" is required")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return apperr.Validation("file is too large")
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	prefix := r.FormValue("prefix")
	if prefix == "" {
		prefix = "uploads"
	}
	if !allowedPrefixes[prefix] {
		return apperr.Validation("unknown upload prefix %q", prefix)
	}
	obj, err := h.svc.Upload(r.Context(), id.UserID, prefix, contentType, data)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, obj, http.StatusCreated)
	return nil
}

func (h *Handler) Presign(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	req, err := httpx.Decode[PresignRequest](r)
	if err != nil {
		return err
	}
	p, err := h.svc.Presign(r.Context(), id.UserID, req.Prefix, req.ContentType)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, p, http.StatusOK)
	return nil
}
