package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/comalice/staterouter/internal/core"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/router/events"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	return conn
}

func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Clients() == n }, 2*time.Second, 5*time.Millisecond)
}

func TestHubStreamsTransitions(t *testing.T) {
	hub := NewHub(nil)
	r := newRouter(t, core.WithObserver(hub))
	srv := httptest.NewServer(NewService(r, hub, nil, nil).Handler())
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	waitClients(t, hub, 1)

	require.NoError(t, r.Route(context.Background(), "/dashboard/3"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "transition", msg.Type)
	require.NotNil(t, msg.Transition)
	assert.Equal(t, "root.dashboard.component", msg.Transition.To)
	assert.Equal(t, core.OpRoute, msg.Op)
	assert.Equal(t, []string{"root", "root.dashboard", "root.dashboard.component"}, msg.Transition.Entered)

	_ = r.Send(context.Background(), "nope")
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, core.OpSend, msg.Op)
	assert.Contains(t, msg.Error, "nope")

	hub.Close()
	waitClients(t, hub, 0)
}

func TestHubRemovesDisconnectedClients(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(NewService(newRouter(t), hub, nil, nil).Handler())
	defer srv.Close()

	conn := dial(t, srv)
	waitClients(t, hub, 1)
	require.NoError(t, conn.Close())
	waitClients(t, hub, 0)

	hub.Close()
}
