package ircprotocol

import (
	"bufio"
	"context"
	"crypto/tls"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
)

// State is the lifecycle state of a Connection.
type State int

const (
	// StateDisconnected means no stream is open.
	StateDisconnected State = iota
	// StateConnecting means the transport is being opened.
	StateConnecting
	// StateConnected means the stream is open and the read loop is running.
	StateConnected
	// StateDisconnecting means the stream is being closed.
	StateDisconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateDisconnecting:
		return "DISCONNECTING"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// LineHandler receives each complete line read from the server, without
// its delimiter.
type LineHandler func(line string)

// DisconnectHandler is called when a session that reached StateConnected
// ends. err is nil for Disconnect and server EOF.
type DisconnectHandler func(err error)

// session tracks one pass through the state machine, from leaving
// StateDisconnected to settling back into it.
type session struct {
	done chan struct{}
	err  error
}

// Connection owns the stream to the server: it opens it, runs the read loop
// and serializes writes.
//
// Thread Safety:
// State transitions are guarded by mu and writes by wmu; all methods are
// safe for concurrent use.
type Connection struct {
	host string
	port int
	opts *Options

	mu      sync.Mutex
	state   State
	stream  io.ReadWriteCloser
	session *session

	lineHandler       LineHandler
	disconnectHandler DisconnectHandler

	wmu sync.Mutex
}

// NewConnection creates a disconnected Connection to host:port.
func NewConnection(host string, port int, opts ...Option) *Connection {
	return newConnection(host, port, buildOptions(opts))
}

func newConnection(host string, port int, opts *Options) *Connection {
	return &Connection{
		host: host,
		port: port,
		opts: opts,
	}
}

// SetLineHandler sets the callback for received lines. It takes effect on
// the next Connect.
func (c *Connection) SetLineHandler(handler LineHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lineHandler = handler
}

// SetDisconnectHandler sets the callback for the end of a session.
func (c *Connection) SetDisconnectHandler(handler DisconnectHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnectHandler = handler
}

// Addr returns the server address in host:port form.
func (c *Connection) Addr() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// State returns the current lifecycle state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connected returns true if the connection is in StateConnected.
func (c *Connection) Connected() bool {
	return c.State() == StateConnected
}

// Connect opens the transport and starts the read loop. It does nothing
// unless the connection is in StateDisconnected.
func (c *Connection) Connect(ctx context.Context) error {
	return c.connect(ctx, nil)
}

// connect opens a new session. opened, if set, runs once the connection is
// in StateConnected and before the read loop starts, so nothing it
// schedules can be preceded by an inbound line.
func (c *Connection) connect(ctx context.Context, opened func()) error {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return nil
	}
	c.state = StateConnecting
	s := &session{done: make(chan struct{})}
	c.session = s
	onLine := c.lineHandler
	c.mu.Unlock()

	stream, err := c.opts.Transport.Open(ctx, c.host, c.port, c.tlsConfig())

	c.mu.Lock()
	if err != nil {
		err = NewConnectionError("failed to connect to "+c.Addr(), err)
		c.settle(s, err)
		c.mu.Unlock()
		return err
	}
	if c.state != StateConnecting {
		// Disconnect was called while the transport was opening.
		err = NewConnectionError("connect to "+c.Addr()+" aborted", nil)
		c.settle(s, nil)
		c.mu.Unlock()
		stream.Close()
		return err
	}
	c.state = StateConnected
	c.stream = stream
	c.mu.Unlock()

	c.opts.Logger.Logf("[conn] connected to %s", c.Addr())
	if opened != nil {
		opened()
	}
	go c.readLoop(stream, s, onLine)
	return nil
}

// settle returns the state machine to StateDisconnected and releases
// everyone waiting on the session. Must be called with mu held.
func (c *Connection) settle(s *session, err error) {
	c.state = StateDisconnected
	c.stream = nil
	s.err = err
	close(s.done)
}

func (c *Connection) tlsConfig() *tls.Config {
	if !c.opts.TLS {
		return nil
	}
	if c.opts.TLSConfig != nil {
		return c.opts.TLSConfig
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

// readLoop delivers lines in the order they arrive until the stream ends.
func (c *Connection) readLoop(stream io.ReadWriteCloser, s *session, onLine LineHandler) {
	reader := bufio.NewReaderSize(stream, MaxReadLength)
	decoder := c.opts.Encoding.NewDecoder()

	var readErr error
	oversized := false
	for {
		raw, err := reader.ReadSlice('\n')
		if err == bufio.ErrBufferFull {
			oversized = true
			continue
		}
		if err != nil {
			// A partial line left at EOF is dropped.
			readErr = err
			break
		}
		if oversized {
			oversized = false
			c.opts.Logger.Logf("[conn] %s: dropping line longer than %d bytes", c.Addr(), MaxReadLength)
			continue
		}
		line := strings.TrimRight(string(raw), "\r\n")
		if decoded, err := decoder.String(line); err == nil {
			line = decoded
		} else {
			c.opts.Logger.Logf("[conn] %s: cannot decode line: %v", c.Addr(), err)
		}
		if onLine != nil {
			onLine(line)
		}
	}

	c.mu.Lock()
	requested := c.state == StateDisconnecting
	var err error
	if !requested {
		stream.Close()
		if readErr != io.EOF {
			err = NewConnectionError("read from "+c.Addr()+" failed", readErr)
		}
	}
	c.state = StateDisconnected
	c.stream = nil
	s.err = err
	onDisconnect := c.disconnectHandler
	c.mu.Unlock()

	switch {
	case requested:
		c.opts.Logger.Logf("[conn] disconnected from %s", c.Addr())
	case err != nil:
		c.opts.Logger.Logf("[conn] %v", err)
	default:
		c.opts.Logger.Logf("[conn] %s closed the connection", c.Addr())
	}

	if onDisconnect != nil {
		onDisconnect(err)
	}
	close(s.done)
}

// Send writes one line, appending the line delimiter. Concurrent callers
// are serialized; no line is interleaved with another.
func (c *Connection) Send(line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return newEncodingError(line, "", "line contains a line delimiter")
	}

	c.mu.Lock()
	if c.state != StateConnected {
		c.mu.Unlock()
		return ErrNotConnected
	}
	stream := c.stream
	c.mu.Unlock()

	data, err := c.opts.Encoding.NewEncoder().String(line + LineDelimiter)
	if err != nil {
		return newEncodingError(line, "", "not representable in the connection charset")
	}

	c.wmu.Lock()
	_, err = io.WriteString(stream, data)
	c.wmu.Unlock()
	if err != nil {
		return NewConnectionError("failed to send to "+c.Addr(), err)
	}
	return nil
}

// Disconnect closes the stream and waits until the connection is back in
// StateDisconnected or ctx is done. It does nothing if already disconnected.
func (c *Connection) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	var stream io.ReadWriteCloser
	switch c.state {
	case StateDisconnected:
		c.mu.Unlock()
		return nil
	case StateConnecting:
		c.state = StateDisconnecting
	case StateConnected:
		c.state = StateDisconnecting
		stream = c.stream
	}
	s := c.session
	c.mu.Unlock()

	var closeErr error
	if stream != nil {
		if err := stream.Close(); err != nil {
			closeErr = NewConnectionError("failed to close "+c.Addr(), err)
		}
	}

	select {
	case <-s.done:
		return closeErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run blocks until the connection is in StateDisconnected or ctx is done.
// It returns the *ConnectionError that ended the session, if any.
func (c *Connection) Run(ctx context.Context) error {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()

	if s == nil {
		return nil
	}
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
