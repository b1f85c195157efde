package notify

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, hub *Hub, initial int) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, r.URL.Query().Get("session"), func() (int, error) { return initial, nil })
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) CartEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev CartEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestHub_PublishReachesOnlySameSession(t *testing.T) {
	hub := NewHub(nil, logger.Nop())
	url := startHub(t, hub, 3)

	a1 := dial(t, url+"?session=a")
	a2 := dial(t, url+"?session=a")
	b := dial(t, url+"?session=b")

	assert.Equal(t, 3, read(t, a1).TotalQuantity)
	assert.Equal(t, 3, read(t, a2).TotalQuantity)
	assert.Equal(t, 3, read(t, b).TotalQuantity)
	require.Eventually(t, func() bool { return hub.Subscribers("a") == 2 }, time.Second, 10*time.Millisecond)

	hub.Publish("a", 5)

	assert.Equal(t, 5, read(t, a1).TotalQuantity)
	assert.Equal(t, 5, read(t, a2).TotalQuantity)

	require.NoError(t, b.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := b.ReadMessage()
	assert.Error(t, err)
}

func TestHub_DisconnectRemovesSubscriber(t *testing.T) {
	hub := NewHub(nil, logger.Nop())
	url := startHub(t, hub, 0)

	conn := dial(t, url+"?session=a")
	read(t, conn)
	require.Eventually(t, func() bool { return hub.Subscribers("a") == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Subscribers("a") == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_CurrentReadAfterSubscribe(t *testing.T) {
	hub := NewHub(nil, logger.Nop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, "a", func() (int, error) {
			assert.Equal(t, 1, hub.Subscribers("a"))
			return 7, nil
		})
	}))
	t.Cleanup(srv.Close)

	conn := dial(t, "ws"+strings.TrimPrefix(srv.URL, "http"))
	assert.Equal(t, 7, read(t, conn).TotalQuantity)
}

func TestHub_CurrentErrorClosesConnection(t *testing.T) {
	hub := NewHub(nil, logger.Nop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, "a", func() (int, error) { return 0, errors.New("redis down") })
	}))
	t.Cleanup(srv.Close)

	conn := dial(t, "ws"+strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	require.Eventually(t, func() bool { return hub.Subscribers("a") == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_RejectsForeignOrigin(t *testing.T) {
	hub := NewHub([]string{"https://shop.example"}, logger.Nop())
	url := startHub(t, hub, 0)

	_, resp, err := websocket.DefaultDialer.Dial(url+"?session=a", http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
