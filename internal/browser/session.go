package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the browser
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the browser
	pongWait = 60 * time.Second

	// Send pings to the browser with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from the browser
	maxMessageSize = 1 << 20
)

// errSessionClosed reports that the WebSocket closed before a reply arrived
var errSessionClosed = errors.New("browser: devtools session closed")

// cdpRequest is the wire form of one protocol command
type cdpRequest struct {
	ID     int64       `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// cdpResponse is the wire form of a command reply. Protocol events carry
// no id and are ignored here
type cdpResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *cdpError       `json:"error"`
}

type cdpError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// session is one DevTools WebSocket connection. Requests go out through
// the send channel; the read pump routes replies back by call id
type session struct {
	conn *websocket.Conn
	send chan []byte

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan cdpResponse

	done      chan struct{}
	closeOnce sync.Once
}

// dialSession connects to a target's WebSocket debugger URL
func dialSession(ctx context.Context, wsURL string) (*session, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("browser: dialing devtools: %w", err)
	}

	s := &session{
		conn:    conn,
		send:    make(chan []byte, 16),
		pending: make(map[int64]chan cdpResponse),
		done:    make(chan struct{}),
	}

	go s.writePump()
	go s.readPump()

	return s, nil
}

// Call sends one protocol command and waits for its reply
func (s *session) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	reply := make(chan cdpResponse, 1)
	s.pending[id] = reply
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
	}()

	data, err := json.Marshal(cdpRequest{ID: id, Method: method, Params: params})
	if err != nil {
		return nil, err
	}

	select {
	case s.send <- data:
	case <-s.done:
		return nil, errSessionClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case resp := <-reply:
		if resp.Error != nil {
			return nil, fmt.Errorf("browser: %s failed: %s (%d)", method, resp.Error.Message, resp.Error.Code)
		}
		return resp.Result, nil
	case <-s.done:
		return nil, errSessionClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close tears down the connection and wakes any waiting callers
func (s *session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// writePump pumps outgoing commands to the WebSocket connection
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case data := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// readPump pumps replies from the WebSocket connection to waiting callers
func (s *session) readPump() {
	defer s.Close()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var resp cdpResponse
		if err := json.Unmarshal(message, &resp); err != nil {
			continue
		}
		// Events have no id; only command replies are routed
		if resp.ID == 0 {
			continue
		}

		s.mu.Lock()
		reply, ok := s.pending[resp.ID]
		s.mu.Unlock()
		if ok {
			select {
			case reply <- resp:
			default:
			}
		}
	}
}
