package ircprotocol

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/multierr"
)

// WebSocketSubprotocol is the IRCv3 text subprotocol name.
const WebSocketSubprotocol = "text.ircv3.net"

// WebSocketTransport carries IRC over a WebSocket, one line per text frame.
// TLS selects wss:// instead of ws://.
type WebSocketTransport struct {
	Path   string
	Header http.Header

	// Dialer is copied before use; websocket.DefaultDialer when nil.
	Dialer *websocket.Dialer
}

// Open performs the WebSocket handshake with host:port.
func (tr *WebSocketTransport) Open(ctx context.Context, host string, port int, tlsConfig *tls.Config) (io.ReadWriteCloser, error) {
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   tr.Path,
	}
	if tlsConfig != nil {
		u.Scheme = "wss"
	}

	dialer := *websocket.DefaultDialer
	if tr.Dialer != nil {
		dialer = *tr.Dialer
	}
	if tlsConfig != nil {
		dialer.TLSClientConfig = tlsConfig
	}
	if dialer.Subprotocols == nil {
		dialer.Subprotocols = []string{WebSocketSubprotocol}
	}

	conn, resp, err := dialer.DialContext(ctx, u.String(), tr.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket handshake with %s: %s: %w", u.String(), resp.Status, err)
		}
		return nil, fmt.Errorf("websocket handshake with %s: %w", u.String(), err)
	}
	return newWSStream(conn), nil
}

// wsStream presents a WebSocket as a line stream: inbound frames are
// terminated with CR LF, outbound lines become one frame each.
type wsStream struct {
	conn *websocket.Conn
	buf  []byte

	wmu sync.Mutex
}

func newWSStream(conn *websocket.Conn) *wsStream {
	return &wsStream{conn: conn}
}

func (s *wsStream) Read(b []byte) (int, error) {
	for len(s.buf) == 0 {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, err
		}
		if !bytes.HasSuffix(data, []byte("\n")) {
			data = append(data, LineDelimiter...)
		}
		s.buf = data
	}
	n := copy(b, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

func (s *wsStream) Write(b []byte) (int, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	for _, line := range bytes.Split(b, []byte("\n")) {
		line = bytes.TrimSuffix(line, []byte("\r"))
		if len(line) == 0 {
			continue
		}
		if err := s.conn.WriteMessage(websocket.TextMessage, line); err != nil {
			return 0, err
		}
	}
	return len(b), nil
}

func (s *wsStream) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	if err == websocket.ErrCloseSent {
		err = nil
	}
	return multierr.Combine(err, s.conn.Close())
}
