package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// startHub serves websocket connections on /ws?room=<id>&user=<id> backed
// by a new hub. dial picks a fresh user id; dialAs names one.
func startHub(t *testing.T) (*Hub, func(roomID uuid.UUID) *websocket.Conn) {
	hub, dialAs := startHubAs(t, nil)
	return hub, func(roomID uuid.UUID) *websocket.Conn { return dialAs(roomID, uuid.New()) }
}

func startHubAs(t *testing.T, allowed func() bool) (*Hub, func(roomID, userID uuid.UUID) *websocket.Conn) {
	t.Helper()
	hub := NewHub(zap.NewNop())
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		roomID, err := uuid.Parse(r.URL.Query().Get("room"))
		if err != nil {
			http.Error(w, "bad room", http.StatusBadRequest)
			return
		}
		userID, err := uuid.Parse(r.URL.Query().Get("user"))
		if err != nil {
			http.Error(w, "bad user", http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn, roomID, userID, allowed)
	}))
	t.Cleanup(srv.Close)

	dialAs := func(roomID, userID uuid.UUID) *websocket.Conn {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?room=" + roomID.String() + "&user=" + userID.String()
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		return conn
	}
	return hub, dialAs
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

// expectClosed reads until the server's close frame arrives. Any data frame
// before it fails the test.
func expectClosed(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.Error(t, err, "unexpected frame %s", data)
	var closeErr *websocket.CloseError
	assert.ErrorAs(t, err, &closeErr)
}

func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "no frame expected")
}

func TestHub_RoomMessageReachesRoomWatchersOnly(t *testing.T) {
	hub, dial := startHub(t)
	roomA, roomB := uuid.New(), uuid.New()

	watcherA := dial(roomA)
	watcherB := dial(roomB)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	pub := NewLocalPublisher(hub, zap.NewNop())
	pub.PublishRoomMessage(context.Background(), models.RoomMessage{
		ID:        7,
		RoomID:    roomA,
		AuthorID:  uuid.New(),
		Text:      "hello room",
		CreatedAt: time.Now(),
	})

	ev := readEvent(t, watcherA)
	assert.Equal(t, EventRoomMessage, ev.Type)
	require.NotNil(t, ev.RoomID)
	assert.Equal(t, roomA, *ev.RoomID)
	assert.Contains(t, string(ev.Payload), "hello room")

	expectSilence(t, watcherB)
}

func TestHub_BroadcastReachesEveryone(t *testing.T) {
	hub, dial := startHub(t)
	first := dial(uuid.New())
	second := dial(uuid.New())
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	pub := NewLocalPublisher(hub, zap.NewNop())
	pub.PublishBroadcast(context.Background(), models.PlatformMessage{ID: 1, Title: "Maintenance", Body: "tonight"})

	for _, conn := range []*websocket.Conn{first, second} {
		ev := readEvent(t, conn)
		assert.Equal(t, EventBroadcast, ev.Type)
		assert.Nil(t, ev.RoomID)
		assert.Contains(t, string(ev.Payload), "Maintenance")
	}
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub, dial := startHub(t)
	conn := dial(uuid.New())
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")))
	conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_SlowClientDoesNotBlock(t *testing.T) {
	hub := NewHub(zap.NewNop())
	roomID := uuid.New()
	c := &Client{hub: hub, roomID: roomID, userID: uuid.New(), send: make(chan []byte, 1)}
	hub.register(c)

	ev := Event{Type: EventRoomMessage, RoomID: &roomID}
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.Deliver(ev)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Deliver blocked on a full client buffer")
	}
	assert.Len(t, c.send, 1)

	hub.unregister(c)
	hub.unregister(c)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_RevokeClosesMatchingClients(t *testing.T) {
	hub, dialAs := startHubAs(t, nil)
	roomA, roomB := uuid.New(), uuid.New()
	leaver, stayer := uuid.New(), uuid.New()

	leaverInA := dialAs(roomA, leaver)
	stayerInA := dialAs(roomA, stayer)
	leaverInB := dialAs(roomB, leaver)
	require.Eventually(t, func() bool { return hub.ClientCount() == 3 }, 2*time.Second, 10*time.Millisecond)

	pub := NewLocalPublisher(hub, zap.NewNop())
	ctx := context.Background()

	// Leaving room A only affects that user's socket in room A.
	pub.PublishRevocation(ctx, models.AccessRevocation{RoomID: roomA, UserID: leaver})
	expectClosed(t, leaverInA)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	pub.PublishRoomMessage(ctx, models.RoomMessage{ID: 1, RoomID: roomA, Text: "still here", CreatedAt: time.Now()})
	assert.Contains(t, string(readEvent(t, stayerInA).Payload), "still here")

	// A ban covers every room of the user.
	pub.PublishRevocation(ctx, models.AccessRevocation{UserID: leaver})
	expectClosed(t, leaverInB)

	// Deleting a room drops everyone watching it.
	pub.PublishRevocation(ctx, models.AccessRevocation{RoomID: roomA})
	expectClosed(t, stayerInA)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_RevokeWithNoMatchIsNoop(t *testing.T) {
	hub := NewHub(zap.NewNop())
	roomID := uuid.New()
	c := &Client{hub: hub, roomID: roomID, userID: uuid.New(), send: make(chan []byte, 1)}
	hub.register(c)

	assert.Equal(t, 0, hub.Revoke(models.AccessRevocation{RoomID: roomID, UserID: uuid.New()}))
	assert.Equal(t, 0, hub.Revoke(models.AccessRevocation{RoomID: uuid.New()}))
	assert.Equal(t, 1, hub.ClientCount())

	assert.Equal(t, 1, hub.Revoke(models.AccessRevocation{RoomID: roomID}))
	assert.Equal(t, 0, hub.ClientCount())
	hub.unregister(c)
}

func TestHub_ServeRechecksAccessAfterRegistering(t *testing.T) {
	hub, dialAs := startHubAs(t, func() bool { return false })
	conn := dialAs(uuid.New(), uuid.New())

	expectClosed(t, conn)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}
