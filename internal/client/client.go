package client

import (
	"fmt"
	"net/url"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/kataras/golog"

	"github.com/cyberstack/hemu/internal/config"
	"github.com/cyberstack/hemu/internal/device"
	"github.com/cyberstack/hemu/internal/protocol"
	"github.com/cyberstack/hemu/internal/ui"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	pingInterval  = 20 * time.Second
	writeTimeout  = 10 * time.Second
	writeChanSize = 64
)

// Sleeper triggers a system sleep. *power.Trigger satisfies it.
type Sleeper interface {
	Sleep()
}

// flushMsg is a queued message whose sender waits for the write. The
// writer closes done once the frame is on the wire.
type flushMsg struct {
	msg  interface{}
	done chan struct{}
}

// Client keeps a WebSocket connection to the controller and serves
// remote sleep requests.
type Client struct {
	cfg     *config.Config
	sleeper Sleeper
	version string

	// DeviceInfo is swappable for tests.
	DeviceInfo func() device.Info

	// ackTimeout bounds how long a sleep acknowledgement may take to
	// leave before the trigger runs anyway.
	ackTimeout time.Duration

	mu          sync.Mutex
	writeCh     chan interface{}
	reconnector *Reconnector

	stopCh chan struct{}
	once   sync.Once
}

// New creates a new Client.
func New(cfg *config.Config, sleeper Sleeper, version string) *Client {
	return &Client{
		cfg:         cfg,
		sleeper:     sleeper,
		version:     version,
		DeviceInfo:  device.Current,
		ackTimeout:  writeTimeout,
		reconnector: NewReconnector(),
		stopCh:      make(chan struct{}),
	}
}

// Stop signals the client to shut down gracefully.
func (c *Client) Stop() {
	c.once.Do(func() {
		close(c.stopCh)
	})
}

// send enqueues a message for the write goroutine. Non-blocking; drops
// the message if the buffer is full or no connection is active.
func (c *Client) send(v interface{}) bool {
	c.mu.Lock()
	ch := c.writeCh
	c.mu.Unlock()
	if ch == nil {
		return false
	}
	select {
	case ch <- v:
		return true
	default:
		return false
	}
}

// sendAndWait queues v and blocks until the writer has sent it, the
// timeout passes, or the client stops. It reports whether v was sent.
func (c *Client) sendAndWait(v interface{}, timeout time.Duration) bool {
	done := make(chan struct{})
	if !c.send(flushMsg{msg: v, done: done}) {
		return false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	case <-c.stopCh:
		return false
	}
}

// writeLoop is the single goroutine that writes to the WebSocket.
func (c *Client) writeLoop(conn *websocket.Conn, ch <-chan interface{}, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var flushed chan struct{}
			if f, isFlush := msg.(flushMsg); isFlush {
				msg, flushed = f.msg, f.done
			}
			data, err := json.Marshal(msg)
			if err != nil {
				golog.Errorf("encode error: %v", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				golog.Errorf("write error: %v", err)
				return
			}
			if flushed != nil {
				close(flushed)
			}
		}
	}
}

// Run connects to the controller and enters the message loop with automatic reconnection.
func (c *Client) Run() error {
	for {
		select {
		case <-c.stopCh:
			return nil
		default:
		}

		err := c.connectAndServe()
		if err != nil {
			ui.Error("Connection lost: %v", err)
		}

		select {
		case <-c.stopCh:
			return nil
		default:
		}

		ui.Info("Reconnecting...")
		if !c.reconnector.Wait(c.stopCh) {
			return nil
		}
	}
}

func (c *Client) dialURL() (string, error) {
	u, err := url.Parse(c.cfg.Agent.URL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	q := u.Query()
	q.Set("token", c.cfg.Agent.Token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) connectAndServe() error {
	target, err := c.dialURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial(target, nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	writeCh := make(chan interface{}, writeChanSize)
	writeDone := make(chan struct{})

	c.mu.Lock()
	c.writeCh = writeCh
	c.mu.Unlock()

	go c.writeLoop(conn, writeCh, writeDone)

	defer func() {
		close(writeDone)
		conn.Close()
		c.mu.Lock()
		c.writeCh = nil
		c.mu.Unlock()
	}()

	// Unblock ReadMessage when Stop is called.
	go func() {
		select {
		case <-c.stopCh:
			conn.Close()
		case <-writeDone:
		}
	}()

	_, raw, err := conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("failed to read connected message: %w", err)
	}
	var connMsg protocol.Connected
	if err := json.Unmarshal(raw, &connMsg); err != nil {
		return fmt.Errorf("invalid connected message: %w", err)
	}
	if connMsg.Type != "connected" {
		return fmt.Errorf("unexpected first message type: %s", connMsg.Type)
	}
	ui.Success("Connected %s", ui.Dim("(agent "+connMsg.AgentID+")"))

	// Successful handshake, reset backoff for next disconnect
	c.reconnector.Reset()

	c.send(protocol.Response{Type: protocol.TypeInfo, Success: true, Payload: c.info()})

	pingDone := make(chan struct{})
	defer close(pingDone)
	go c.heartbeatLoop(pingDone)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.stopCh:
				return nil
			default:
			}
			return fmt.Errorf("read error: %w", err)
		}

		var req protocol.Request
		if err := json.Unmarshal(raw, &req); err != nil {
			golog.Warnf("invalid message: %v", err)
			continue
		}

		c.handleRequest(req)
	}
}

// handleRequest answers one request. For "sleep" the acknowledgement is
// written before the trigger runs.
func (c *Client) handleRequest(req protocol.Request) {
	golog.Debugf("request %s (id=%s)", req.Type, req.ID)

	switch req.Type {
	case protocol.TypePing:
		c.send(map[string]string{"type": protocol.TypePong})
	case protocol.TypePong:
		// Heartbeat ack, no action
	case protocol.TypeInfo:
		c.send(protocol.Response{
			ID:      req.ID,
			Type:    protocol.ResultType(req.Type),
			Success: true,
			Payload: c.info(),
		})
	case protocol.TypeSleep:
		golog.Infof("remote sleep requested (id=%s)", req.ID)
		ack := protocol.Response{
			ID:      req.ID,
			Type:    protocol.ResultType(req.Type),
			Success: true,
			Payload: protocol.SleepResultPayload{Requested: true},
		}
		if !c.sendAndWait(ack, c.ackTimeout) {
			golog.Warnf("sleep_result for %s not confirmed, sleeping anyway", req.ID)
		}
		c.sleeper.Sleep()
	default:
		c.send(protocol.Response{
			ID:      req.ID,
			Type:    protocol.ResultType(req.Type),
			Success: false,
			Payload: protocol.ErrorPayload{Error: fmt.Sprintf("unknown request type: %s", req.Type)},
		})
	}
}

func (c *Client) info() protocol.InfoPayload {
	d := c.DeviceInfo()
	return protocol.InfoPayload{
		OS:        fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Hostname:  d.Hostname,
		OSVersion: d.OSVersion,
		MachineID: d.MachineID,
		Version:   c.version,
	}
}

func (c *Client) heartbeatLoop(done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.send(map[string]string{"type": protocol.TypePing})
		}
	}
}
