package post

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

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) error {
	v, err := h.svc.Get(r.Context(), r.PathValue("postId"))
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, v, http.StatusOK)
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

func (h *Handler) ListSaved(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	limit, offset := httpx.Page(r)
	vs, err := h.svc.ListSaved(r.Context(), id.UserID, limit, offset)
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
	v, err := h.svc.ToggleLike(r.Context(), r.PathValue("postId"), id.UserID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, v, http.StatusOK)
	return nil
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	v, err := h.svc.ToggleSave(r.Context(), r.PathValue("postId"), id.UserID)
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
	v, err := h.svc.AddComment(r.Context(), r.PathValue("postId"), id.UserID, body.Text)
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
	v, err := h.svc.DeleteComment(r.Context(), r.PathValue("postId"), r.PathValue("commentId"), id.UserID)
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
	postID := r.PathValue("postId")
	if err := h.svc.Delete(r.Context(), postID, id.UserID); err != nil {
		return err
	}
	httpx.WriteJSON(w, DeleteResponse{Message: "Post deleted successfully", DeletedPostID: postID}, http.StatusOK)
	return nil
}
