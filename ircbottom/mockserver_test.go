// =============================================================================
// mockserver_test.go - Mock IRC Server for CLI Tests
// =============================================================================
//
// A loopback TCP server that records every line the CLI sends and lets a
// test push server lines back. It speaks no IRC itself; tests script both
// sides of the conversation.
//
// =============================================================================

package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ircbottom/ircbottom/ircprotocol"
)

const testTimeout = 2 * time.Second

type mockServer struct {
	listener net.Listener
	port     int
	received chan string
	accepted chan struct{}

	mu          sync.Mutex
	connections []net.Conn
	wg          sync.WaitGroup
}

func startMockServer(t *testing.T) *mockServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "failed to create mock server socket")

	ms := &mockServer{
		listener: listener,
		port:     listener.Addr().(*net.TCPAddr).Port,
		received: make(chan string, 256),
		accepted: make(chan struct{}, 16),
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
		ms.accepted <- struct{}{}

		ms.wg.Add(1)
		go func() {
			defer ms.wg.Done()
			scanner := bufio.NewScanner(conn)
			for scanner.Scan() {
				ms.received <- strings.TrimRight(scanner.Text(), "\r")
			}
		}()
	}
}

func (ms *mockServer) send(t *testing.T, line string) {
	t.Helper()
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, conn := range ms.connections {
		_, err := io.WriteString(conn, line+"\r\n")
		require.NoError(t, err)
	}
}

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

func (ms *mockServer) waitForConn(t *testing.T) {
	t.Helper()
	select {
	case <-ms.accepted:
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for a client connection")
	}
}

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

// expectNoLine verifies nothing arrives for a short while.
func (ms *mockServer) expectNoLine(t *testing.T) {
	t.Helper()
	select {
	case line := <-ms.received:
		t.Fatalf("unexpected line from the client: %q", line)
	case <-time.After(50 * time.Millisecond):
	}
}

// newTestClient creates a plain-text client for the mock server.
func newTestClient(ms *mockServer, opts ...ircprotocol.Option) *ircprotocol.Client {
	base := []ircprotocol.Option{ircprotocol.WithTLS(false), ircprotocol.WithLogger(&ircprotocol.NopLogger{})}
	return ircprotocol.NewClient("127.0.0.1", ms.port, append(base, opts...)...)
}

// connectClient connects client to ms and disconnects it at the end of the test.
func connectClient(t *testing.T, ms *mockServer, client *ircprotocol.Client) {
	t.Helper()
	require.NoError(t, client.Connect(context.Background()))
	ms.waitForConn(t)
	t.Cleanup(func() { client.Disconnect(context.Background()) })
}

// syncBuffer is a bytes.Buffer that handlers can write to concurrently.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
