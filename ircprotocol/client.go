package ircprotocol

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Client is an event-driven IRC client.
//
// It packs outbound commands onto its Connection, unpacks every inbound
// line into an event, and runs the handlers registered for that event as
// independent tasks on the configured Scheduler.
//
// Thread Safety:
// The handler registry is guarded by an RWMutex; the client is safe for
// concurrent use from multiple goroutines.
type Client struct {
	host string
	port int
	opts *Options
	conn *Connection

	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewClient creates a disconnected client for host:port.
func NewClient(host string, port int, opts ...Option) *Client {
	o := buildOptions(opts)
	c := &Client{
		host:     host,
		port:     port,
		opts:     o,
		handlers: make(map[string][]Handler),
	}
	c.conn = newConnection(host, port, o)
	c.conn.SetLineHandler(c.handleLine)
	c.conn.SetDisconnectHandler(c.handleDisconnect)
	return c
}

// Host returns the server host name.
func (c *Client) Host() string {
	return c.host
}

// Port returns the server port.
func (c *Client) Port() int {
	return c.port
}

// Connected returns true if the underlying connection is open.
func (c *Client) Connected() bool {
	return c.conn.Connected()
}

// State returns the state of the underlying connection.
func (c *Client) State() State {
	return c.conn.State()
}

// Connect opens the connection and triggers EventClientConnect. It does
// nothing if the client is already connected or connecting.
func (c *Client) Connect(ctx context.Context) error {
	return c.conn.connect(ctx, func() {
		c.Trigger(EventClientConnect, c.addrParams())
	})
}

// Disconnect closes the connection. Handlers that are already scheduled
// keep running.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.conn.Disconnect(ctx)
}

// Run blocks until the connection is closed or ctx is done.
func (c *Client) Run(ctx context.Context) error {
	return c.conn.Run(ctx)
}

// Send packs a command and writes it to the server.
//
// Examples:
//
//	client.Send("NICK", ircprotocol.Params{"nick": "weatherbot"})
//	client.Send("PRIVMSG", ircprotocol.Params{"target": "#go", "message": "Hello, World!"})
func (c *Client) Send(command string, params Params) error {
	line, err := Pack(command, params)
	if err != nil {
		return err
	}
	return c.conn.Send(line)
}

// SendRaw writes a preformatted line to the server. The line must not
// contain a line delimiter.
func (c *Client) SendRaw(line string) error {
	return c.conn.Send(line)
}

// On registers handler for event and returns it unchanged. Event names are
// case-insensitive. Registering the same handler twice makes it run twice.
func (c *Client) On(event string, handler Handler) Handler {
	if handler == nil {
		return nil
	}
	name := strings.ToUpper(event)

	c.mu.Lock()
	c.handlers[name] = append(c.handlers[name], handler)
	c.mu.Unlock()
	return handler
}

// Registrar returns a function that registers its argument for event.
//
//	onPrivmsg := client.Registrar("PRIVMSG")
//	logMessage := onPrivmsg(func(p ircprotocol.Params) error { ... })
func (c *Client) Registrar(event string) func(Handler) Handler {
	return func(handler Handler) Handler {
		return c.On(event, handler)
	}
}

// Trigger schedules every handler registered for event and returns without
// waiting for any of them. Each handler gets its own copy of params.
// Triggering an event nobody listens to does nothing.
func (c *Client) Trigger(event string, params Params) {
	name := strings.ToUpper(event)

	c.mu.RLock()
	handlers := slices.Clone(c.handlers[name])
	c.mu.RUnlock()

	for _, h := range handlers {
		h := h
		p := params.Clone()
		c.opts.Scheduler.Go(func() {
			c.invoke(name, h, p)
		})
	}
}

// invoke runs one handler, keeping its failure inside the task.
func (c *Client) invoke(event string, h Handler, params Params) {
	defer func() {
		if r := recover(); r != nil {
			c.reportError(&HandlerError{Event: event, Err: fmt.Errorf("panic: %v", r)})
		}
	}()
	if err := h(params); err != nil {
		c.reportError(&HandlerError{Event: event, Err: err})
	}
}

func (c *Client) reportError(err error) {
	if c.opts.ErrorHandler != nil {
		c.opts.ErrorHandler(err)
		return
	}
	c.opts.Logger.Logf("[client] %v", err)
}

// handleLine is called from the read loop for every received line.
func (c *Client) handleLine(line string) {
	msg, err := Unpack(line)
	if err != nil {
		c.opts.Logger.Logf("[client] dropping line: %v", err)
		return
	}
	event, params := msg.Event()
	c.Trigger(event, params)
}

func (c *Client) handleDisconnect(err error) {
	params := c.addrParams()
	if err != nil {
		params["error"] = err
	}
	c.Trigger(EventClientDisconnect, params)
}

func (c *Client) addrParams() Params {
	return Params{"host": c.host, "port": c.port}
}
