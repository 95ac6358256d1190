package live

import (
	"net/http"

	"github.com/gorilla/websocket"

	"travel-service/internal/shared/apperr"
	"travel-service/internal/shared/httpx"
	"travel-service/internal/shared/logging"
)

// Handler upgrades GET /ws?token=<jwt> and registers the connection under
// the token's user id.
type Handler struct {
	hub      *Hub
	tokens   httpx.TokenParser
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, tokens httpx.TokenParser) *Handler {
	return &Handler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// mobile clients send no Origin header
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tok := r.URL.Query().Get("token")
	if tok == "" {
		tok = httpx.BearerToken(r)
	}
	if tok == "" {
		httpx.WriteError(w, http.StatusUnauthorized, apperr.Unauthorized("missing token"), "missing_token")
		return
	}
	claims, err := h.tokens.Parse(tok)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, apperr.Unauthorized("invalid token"), "invalid_token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := NewClient(h.hub, claims.UserID, conn)
	h.hub.Register(c)
	c.Start()
}
