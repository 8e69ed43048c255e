package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/betodolist/betodolist-api/internal/utils"
)

const hubTestSecret = "hub_test_secret"

func setupHubServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(hubTestSecret)
	r := gin.New()
	r.GET("/ws", hub.HandleConnection)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dialHub(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
	})
	return conn
}

func waitForConnections(t *testing.T, hub *Hub, userID uint64, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ConnectionCount(userID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, want, hub.ConnectionCount(userID))
}

func TestHub_RejectsMissingOrBadToken(t *testing.T) {
	_, srv := setupHubServer(t)

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/ws?token=garbage")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_NotifyDeliversToUser(t *testing.T) {
	hub, srv := setupHubServer(t)

	token, err := utils.IssueToken(hubTestSecret, 7, time.Hour)
	require.NoError(t, err)

	conn := dialHub(t, srv, token)
	waitForConnections(t, hub, 7, 1)

	hub.Notify(7, "task_assigned", map[string]interface{}{"task_id": 42})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Event string                 `json:"event"`
		Data  map[string]interface{} `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "task_assigned", msg.Event)
	require.Equal(t, float64(42), msg.Data["task_id"])
}

func TestHub_NotifyOnlyTargetsUser(t *testing.T) {
	hub, srv := setupHubServer(t)

	tokenA, err := utils.IssueToken(hubTestSecret, 1, time.Hour)
	require.NoError(t, err)
	tokenB, err := utils.IssueToken(hubTestSecret, 2, time.Hour)
	require.NoError(t, err)

	connA := dialHub(t, srv, tokenA)
	connB := dialHub(t, srv, tokenB)
	waitForConnections(t, hub, 1, 1)
	waitForConnections(t, hub, 2, 1)

	hub.Notify(1, "ping", nil)

	connA.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Event string `json:"event"`
	}
	require.NoError(t, connA.ReadJSON(&msg))
	require.Equal(t, "ping", msg.Event)

	connB.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var stray struct{}
	err = connB.ReadJSON(&stray)
	require.Error(t, err)
}

func TestHub_NotifyWithoutConnectionsIsNoop(t *testing.T) {
	hub, _ := setupHubServer(t)

	// Must not panic or block.
	hub.Notify(99, "task_assigned", nil)
	require.Zero(t, hub.ConnectionCount(99))
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub, srv := setupHubServer(t)

	token, err := utils.IssueToken(hubTestSecret, 5, time.Hour)
	require.NoError(t, err)

	conn := dialHub(t, srv, token)
	waitForConnections(t, hub, 5, 1)

	conn.Close()
	waitForConnections(t, hub, 5, 0)
}
