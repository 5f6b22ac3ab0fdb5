package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberstack/hemu/internal/config"
	"github.com/cyberstack/hemu/internal/device"
	"github.com/cyberstack/hemu/internal/protocol"
)

type countingSleeper struct {
	calls   atomic.Int32
	onSleep func()
}

func (s *countingSleeper) Sleep() {
	if s.onSleep != nil {
		s.onSleep()
	}
	s.calls.Add(1)
}

func newTestClient(url string) (*Client, *countingSleeper) {
	cfg := &config.Config{}
	cfg.Agent.URL = url
	cfg.Agent.Token = "secret"

	sleeper := &countingSleeper{}
	c := New(cfg, sleeper, "0.3.0")
	c.DeviceInfo = func() device.Info {
		return device.Info{Hostname: "studio", OSVersion: "darwin 14.4", MachineID: "m-1"}
	}
	return c, sleeper
}

// attach gives the client a write channel without a real connection.
func attach(c *Client) chan interface{} {
	ch := make(chan interface{}, writeChanSize)
	c.mu.Lock()
	c.writeCh = ch
	c.mu.Unlock()
	return ch
}

// fakeWriter drains ch like writeLoop does and records what it wrote.
func fakeWriter(ch chan interface{}, delay time.Duration, written *atomic.Int32) chan interface{} {
	out := make(chan interface{}, writeChanSize)
	go func() {
		for msg := range ch {
			if f, ok := msg.(flushMsg); ok {
				time.Sleep(delay)
				written.Add(1)
				out <- f.msg
				close(f.done)
				continue
			}
			written.Add(1)
			out <- msg
		}
	}()
	return out
}

func TestHandleSleep(t *testing.T) {
	t.Parallel()

	c, sleeper := newTestClient("ws://unused")
	ch := attach(c)
	defer close(ch)

	var written atomic.Int32
	out := fakeWriter(ch, 50*time.Millisecond, &written)

	var writtenAtSleep int32 = -1
	sleeper.onSleep = func() { writtenAtSleep = written.Load() }

	c.handleRequest(protocol.Request{ID: "42", Type: protocol.TypeSleep})

	require.EqualValues(t, 1, sleeper.calls.Load())
	require.EqualValues(t, 1, writtenAtSleep, "sleep_result is written before the trigger runs")

	resp := (<-out).(protocol.Response)
	assert.Equal(t, "42", resp.ID)
	assert.Equal(t, "sleep_result", resp.Type)
	assert.True(t, resp.Success)
	assert.Equal(t, protocol.SleepResultPayload{Requested: true}, resp.Payload)
}

func TestHandleSleepWithoutWriter(t *testing.T) {
	t.Parallel()

	c, sleeper := newTestClient("ws://unused")
	c.ackTimeout = 20 * time.Millisecond
	ch := attach(c)

	start := time.Now()
	c.handleRequest(protocol.Request{ID: "9", Type: protocol.TypeSleep})

	require.EqualValues(t, 1, sleeper.calls.Load(), "a stalled writer does not block the trigger")
	require.GreaterOrEqual(t, time.Since(start), c.ackTimeout)
	require.Len(t, ch, 1)

	// No connection at all: the trigger still runs.
	c2, sleeper2 := newTestClient("ws://unused")
	c2.handleRequest(protocol.Request{ID: "10", Type: protocol.TypeSleep})
	require.EqualValues(t, 1, sleeper2.calls.Load())
}

func TestHandleRequestTypes(t *testing.T) {
	t.Parallel()

	c, sleeper := newTestClient("ws://unused")
	ch := attach(c)

	c.handleRequest(protocol.Request{Type: protocol.TypePing})
	require.Equal(t, map[string]string{"type": "pong"}, <-ch)

	c.handleRequest(protocol.Request{Type: protocol.TypePong})
	require.Len(t, ch, 0, "pong is not answered")

	c.handleRequest(protocol.Request{ID: "7", Type: protocol.TypeInfo})
	info := (<-ch).(protocol.Response)
	require.Equal(t, "info_result", info.Type)
	payload := info.Payload.(protocol.InfoPayload)
	require.Equal(t, "studio", payload.Hostname)
	require.Equal(t, "m-1", payload.MachineID)
	require.Equal(t, "0.3.0", payload.Version)

	c.handleRequest(protocol.Request{ID: "8", Type: "reboot"})
	unknown := (<-ch).(protocol.Response)
	require.Equal(t, "reboot_result", unknown.Type)
	require.False(t, unknown.Success)
	require.Contains(t, unknown.Payload.(protocol.ErrorPayload).Error, "unknown request type")

	require.Zero(t, sleeper.calls.Load())
}

func TestSendWithoutConnection(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient("ws://unused")
	require.False(t, c.send(map[string]string{"type": "ping"}))
}

func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	conns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "secret" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	defer srv.Close()

	c, sleeper := newTestClient("ws" + strings.TrimPrefix(srv.URL, "http"))

	runErr := make(chan error, 1)
	go func() { runErr <- c.Run() }()

	var conn *websocket.Conn
	select {
	case conn = <-conns:
	case <-time.After(5 * time.Second):
		t.Fatal("agent did not connect")
	}
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "connected", "runner_id": "r-1"}))

	var info protocol.Response
	require.NoError(t, conn.ReadJSON(&info))
	require.Equal(t, "info", info.Type)

	require.NoError(t, conn.WriteJSON(protocol.Request{ID: "1", Type: protocol.TypeSleep}))

	var result protocol.Response
	require.NoError(t, conn.ReadJSON(&result))
	require.Equal(t, "1", result.ID)
	require.Equal(t, "sleep_result", result.Type)
	require.True(t, result.Success)

	require.Eventually(t, func() bool { return sleeper.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	c.Stop()
	select {
	case err := <-runErr:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
