package httpx

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/goccy/go-json"

	"travel-service/internal/shared/apperr"
	"travel-service/internal/shared/logging"
	"travel-service/internal/shared/validate"
)

type HandlerFunc func(http.ResponseWriter, *http.Request) error

type APIError struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
	Status int    `json:"status"`
}

var exposeInternal atomic.Bool

// ExposeInternal makes Wrap return the real message of unclassified errors
// instead of "internal server error". Only for development.
func ExposeInternal(on bool) { exposeInternal.Store(on) }

func WriteJSON(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, err error, reason string) {
	if err == nil {
		err = errors.New(http.StatusText(status))
	}
	WriteJSON(w, APIError{Error: err.Error(), Reason: reason, Status: status}, status)
}

// Wrap adapts an error-returning handler. Errors are classified once here by
// their apperr kind.
func Wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		kind := apperr.KindOf(err)
		status := apperr.Status(kind)
		if kind == apperr.KindInternal {
			logging.Ctx(r.Context()).Error().Err(err).
				Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
			if !exposeInternal.Load() {
				err = errors.New("internal server error")
			}
		}
		WriteError(w, status, err, string(kind))
	})
}

// Decode reads a JSON body into T and runs struct validation on it.
func Decode[T any](r *http.Request) (T, error) {
	var t T
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return t, apperr.Validation("request body is empty")
		}
		return t, apperr.Validation("invalid json body")
	}
	if err := validate.Struct(t); err != nil {
		return t, err
	}
	return t, nil
}

func QueryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// Page reads limit/offset query params, clamped to [1, MaxLimit] and >= 0.
func Page(r *http.Request) (limit, offset int) {
	limit = QueryInt(r, "limit", DefaultLimit)
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset = QueryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
