package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-service/internal/shared/jwt"
)

func testClient(h *Hub, userID string, buf int) *Client {
	return &Client{id: userID + "-c", userID: userID, hub: h, send: make(chan Message, buf)}
}

func TestPushToAllConnectionsOfUser(t *testing.T) {
	h := NewHub()
	phone := testClient(h, "u1", 4)
	tablet := testClient(h, "u1", 4)
	other := testClient(h, "u2", 4)
	h.Register(phone)
	h.Register(tablet)
	h.Register(other)

	n := h.PushTo("u1", Message{Event: EventNotification, Data: "hi"})

	assert.Equal(t, 2, n)
	assert.Len(t, phone.send, 1)
	assert.Len(t, tablet.send, 1)
	assert.Empty(t, other.send)
}

func TestPushToOfflineUser(t *testing.T) {
	h := NewHub()
	assert.Equal(t, 0, h.PushTo("nobody", Message{Event: EventNotification}))
}

func TestPushToDoesNotBlockOnFullBuffer(t *testing.T) {
	h := NewHub()
	c := testClient(h, "u1", 1)
	h.Register(c)

	assert.Equal(t, 1, h.PushTo("u1", Message{Event: EventNotification}))
	assert.Equal(t, 0, h.PushTo("u1", Message{Event: EventNotification}))
}

func TestUnregisterClosesSendOnce(t *testing.T) {
	h := NewHub()
	c := testClient(h, "u1", 1)
	h.Register(c)

	h.Unregister(c)
	h.Unregister(c)

	_, open := <-c.send
	assert.False(t, open)
	assert.Equal(t, 0, h.Connections("u1"))
}

func TestCloseDisconnectsEveryone(t *testing.T) {
	h := NewHub()
	a := testClient(h, "u1", 1)
	b := testClient(h, "u2", 1)
	h.Register(a)
	h.Register(b)

	h.Close()
	h.Unregister(a)

	_, open := <-a.send
	assert.False(t, open)
	_, open = <-b.send
	assert.False(t, open)

	late := testClient(h, "u3", 1)
	h.Register(late)
	_, open = <-late.send
	assert.False(t, open)
	assert.Equal(t, 0, h.Connections("u3"))
}

func TestHandlerRejectsMissingToken(t *testing.T) {
	h := NewHandler(NewHub(), jwt.NewSigner("secret", 0))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerPushAndPing(t *testing.T) {
	signer := jwt.NewSigner("secret", 0)
	hub := NewHub()
	t.Cleanup(hub.Close)
	srv := httptest.NewServer(NewHandler(hub, signer))
	t.Cleanup(srv.Close)

	tok, err := signer.Make("u1", "explorer")
	require.NoError(t, err)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + tok
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.Connections("u1") == 1 }, time.Second, 10*time.Millisecond)

	hub.PushTo("u1", Message{Event: EventNotification, Data: map[string]string{"kind": "like"}})
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"notification","data":{"kind":"like"}}`, string(raw))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"ping"}`)))
	_, raw, err = conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, EventPong, msg.Event)

	_ = conn.Close()
	require.Eventually(t, func() bool { return hub.Connections("u1") == 0 }, 2*time.Second, 10*time.Millisecond)
}
