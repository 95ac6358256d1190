package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("text is required"), KindValidation},
		{"wrapped not found", fmt.Errorf("like post: %w", NotFound("post not found")), KindNotFound},
		{"forbidden", Forbidden("not the owner"), KindForbidden},
		{"plain error", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("delete comment: %w", Forbidden("not allowed"))
	assert.True(t, errors.Is(err, ErrForbidden))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Status(KindValidation))
	assert.Equal(t, http.StatusUnauthorized, Status(KindUnauthorized))
	assert.Equal(t, http.StatusForbidden, Status(KindForbidden))
	assert.Equal(t, http.StatusNotFound, Status(KindNotFound))
	assert.Equal(t, http.StatusTooManyRequests, Status(KindTooManyRequests))
	assert.Equal(t, http.StatusInternalServerError, Status(KindInternal))
}
