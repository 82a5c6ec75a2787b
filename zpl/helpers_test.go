package zpl

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Shortened timeouts keep the timeout-path tests fast while preserving the
// idle/poll ratio of the defaults.
func testConnOptions() []ConnOption {
	return []ConnOption{
		WithConnectTimeout(500 * time.Millisecond),
		WithIdleTimeout(200 * time.Millisecond),
		WithPollInterval(10 * time.Millisecond),
	}
}

func newTestConfig(t *testing.T, port int, opts ...ConnOption) *ConnectionConfig {
	t.Helper()

	cfg, err := NewConnectionConfig("127.0.0.1", port, append(testConnOptions(), opts...)...)
	require.NoError(t, err)

	return cfg
}

func newTestClient(t *testing.T, port int, opts ...ConnOption) *Client {
	t.Helper()

	client, err := NewClient(newTestConfig(t, port, opts...))
	require.NoError(t, err)

	return client
}

// startFakePrinter starts a loopback device that accepts one connection and
// hands it to handler. Returns the port to dial.
func startFakePrinter(t *testing.T, handler func(conn net.Conn)) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		handler(conn)
	}()

	return ln.Addr().(*net.TCPAddr).Port
}

// readCommandLine consumes one newline-terminated command from the client.
// Runs on the fake printer's goroutine, so failures are reported via assert.
func readCommandLine(t *testing.T, conn net.Conn) string {
	line, err := bufio.NewReader(conn).ReadString('\n')
	if !assert.NoError(t, err) {
		return ""
	}

	return strings.TrimSuffix(line, "\n")
}

func mustWrite(t *testing.T, conn net.Conn, data []byte) {
	_, err := conn.Write(data)
	assert.NoError(t, err)
}
