package ircprotocol

import (
	"bufio"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testTimeout = 2 * time.Second
	tick        = 10 * time.Millisecond
)

// mockServer is a minimal IRC server listening on loopback TCP. It records
// every line it receives and lets tests push lines to connected clients.
type mockServer struct {
	listener net.Listener

	port int

	// received carries every line read from any client, delimiter stripped.
	received chan string

	// accepted carries each new server-side connection.
	accepted chan net.Conn

	mu sync.Mutex

	connections []net.Conn

	wg sync.WaitGroup
}

func startMockServer(t *testing.T) *mockServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "failed to create mock server socket")

	ms := &mockServer{
		listener: listener,
		port:     listener.Addr().(*net.TCPAddr).Port,
		received: make(chan string, 256),
		accepted: make(chan net.Conn, 16),
	}

	ms.wg.Add(1)
	go ms.acceptLoop()

	t.Cleanup(ms.stop)
	return ms
}

func (ms *mockServer) acceptLoop() {
	defer ms.wg.Done()

	for {
		conn, err := ms.listener.Accept()
		if err != nil {
			return
		}

		ms.mu.Lock()
		ms.connections = append(ms.connections, conn)
		ms.mu.Unlock()

		ms.accepted <- conn

		ms.wg.Add(1)
		go ms.handleConnection(conn)
	}
}

func (ms *mockServer) handleConnection(conn net.Conn) {
	defer ms.wg.Done()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		ms.received <- strings.TrimRight(scanner.Text(), "\r")
	}
}

// send writes raw data to every connected client.
func (ms *mockServer) send(t *testing.T, data string) {
	t.Helper()

	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, conn := range ms.connections {
		_, err := io.WriteString(conn, data)
		require.NoError(t, err)
	}
}

// dropConnections closes the server side of every connection.
func (ms *mockServer) dropConnections() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, conn := range ms.connections {
		conn.Close()
	}
	ms.connections = nil
}

func (ms *mockServer) stop() {
	ms.listener.Close()
	ms.dropConnections()
	ms.wg.Wait()
}

// waitForConn waits for the next client connection.
func (ms *mockServer) waitForConn(t *testing.T) net.Conn {
	t.Helper()
	select {
	case conn := <-ms.accepted:
		return conn
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for a client connection")
		return nil
	}
}

// expectLine waits for the next line the server received.
func (ms *mockServer) expectLine(t *testing.T) string {
	t.Helper()
	select {
	case line := <-ms.received:
		return line
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for a line from the client")
		return ""
	}
}

// newTestClient creates a plain-text client for the mock server.
func newTestClient(ms *mockServer, opts ...Option) *Client {
	base := []Option{WithTLS(false), WithLogger(&NopLogger{})}
	return NewClient("127.0.0.1", ms.port, append(base, opts...)...)
}

// receive waits for one value on ch.
func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for a value")
		var zero T
		return zero
	}
}
