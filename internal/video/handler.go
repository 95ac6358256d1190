package video

import (
	"net/http"

	"travel-service/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	body, err := httpx.Decode[CreateRequest](r)
	if err != nil {
		return err
	}
	v, err := h.svc.Create(r.Context(), id.UserID, body)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, v, http.StatusCreated)
	return nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	limit, offset := httpx.Page(r)
	vs, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, vs, http.StatusOK)
	return nil
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) error {
	limit, offset := httpx.Page(r)
	vs, err := h.svc.ListByUser(r.Context(), r.PathValue("userId"), limit, offset)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, vs, http.StatusOK)
	return nil
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	v, err := h.svc.ToggleLike(r.Context(), r.PathValue("videoId"), id.UserID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, v, http.StatusOK)
	return nil
}

func (h *Handler) Comment(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	body, err := httpx.Decode[CommentRequest](r)
	if err != nil {
		return err
	}
	v, err := h.svc.AddComment(r.Context(), r.PathValue("videoId"), id.UserID, body.Text)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, v, http.StatusCreated)
	return nil
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	v, err := h.svc.DeleteComment(r.Context(), r.PathValue("videoId"), r.PathValue("commentId"), id.UserID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, v, http.StatusOK)
	return nil
}

// View counts a view. It is mounted behind optional auth so anonymous
// viewers count too.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) error {
	var actor string
	if id, err := httpx.UserFromCtx(r); err == nil {
		actor = id.UserID
	}
	v, err := h.svc.IncrementViews(r.Context(), r.PathValue("videoId"), actor)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, v, http.StatusOK)
	return nil
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	videoID := r.PathValue("videoId")
	if err := h.svc.Delete(r.Context(), videoID, id.UserID); err != nil {
		return err
	}
	httpx.WriteJSON(w, DeleteResponse{Message: "Video deleted successfully", DeletedVideoID: videoID}, http.StatusOK)
	return nil
}
