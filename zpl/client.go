package zpl

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/printops/go-zpl/logger"
)

// In-band framing bytes used by the device protocol to delimit a payload
// within a raw chunk.
const (
	STX byte = 0x02 // start of payload
	ETX byte = 0x03 // end of payload
)

// Client queries a single printer described by a ConnectionConfig.
//
// Each operation opens and closes its own TCP connection and shares no state
// with other calls, so a Client is safe for concurrent use. There are no
// internal retries; a failed call is the caller's to retry.
type Client struct {
	cfg    *ConnectionConfig
	logger logger.Logger
}

// NewClient creates a Client for the printer described by cfg.
func NewClient(cfg *ConnectionConfig) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("zpl: connection config is nil")
	}

	return &Client{
		cfg:    cfg,
		logger: cfg.GetLogger().With("printer", cfg.Addr()),
	}, nil
}

// SendCommand sends one command line to the printer and accumulates the reply
// until an end condition or the idle timeout.
//
// The command is written followed by a line terminator; net.Conn writes are
// unbuffered, so the bytes reach the kernel immediately. The reply is then
// read in chunks under the idle-reset timeout, applying STX/ETX framing per
// chunk. If endText is non-empty, its appearance anywhere in the accumulated
// reply also terminates the read; pass it for commands whose replies carry no
// ETX byte.
//
// Fails with ErrConnect if the dial fails or times out, and with
// ErrIdleTimeout if the idle budget elapses without an end condition. The
// connection is closed on every return path.
func (c *Client) SendCommand(ctx context.Context, command, endText string) (string, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(command + "\n")); err != nil {
		return "", fmt.Errorf("%w: writing to %s: %w", ErrConnect, c.cfg.Addr(), err)
	}

	c.logger.Debug("command sent", "command", command)

	return c.receive(ctx, conn, endText)
}

// Send writes one command line to the printer without reading a reply.
// Used for commands that produce no response, such as SGD setvar.
func (c *Client) Send(ctx context.Context, command string) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(command + "\n")); err != nil {
		return fmt.Errorf("%w: writing to %s: %w", ErrConnect, c.cfg.Addr(), err)
	}

	c.logger.Debug("command sent", "command", command)

	return nil
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	dialer := net.Dialer{Timeout: c.cfg.ConnectTimeout()}

	conn, err := dialer.DialContext(ctx, "tcp", c.cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, c.cfg.Addr(), err)
	}

	return conn, nil
}

// receive accumulates the reply off conn until an end condition is met or the
// idle budget of consecutive silence elapses.
//
// The loop polls at the configured interval using per-read deadlines: a read
// that returns data resets the idle counter, a read that times out advances
// it by one interval. This measures consecutive silence rather than elapsed
// time, so a slow device that keeps trickling data is never cut off. A peer
// that closes the connection stops producing data and runs out the same idle
// budget.
func (c *Client) receive(ctx context.Context, conn net.Conn, endText string) (string, error) {
	var (
		resp  strings.Builder
		idle  time.Duration
		chunk = make([]byte, c.cfg.ChunkSize())
	)

	var deadline time.Time
	if d := c.cfg.TotalDeadline(); d > 0 {
		deadline = time.Now().Add(d)
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			return "", fmt.Errorf("%w: %s", ErrDeadlineExceeded, c.cfg.Addr())
		}

		if err := conn.SetReadDeadline(time.Now().Add(c.cfg.PollInterval())); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrConnect, c.cfg.Addr(), err)
		}

		n, err := conn.Read(chunk)
		if n > 0 {
			idle = 0

			payload, endFound := frameChunk(chunk[:n])
			resp.Write(payload)

			if endText != "" && strings.Contains(resp.String(), endText) {
				endFound = true
			}
			if endFound {
				c.logger.Debug("reply complete", "bytes", resp.Len())
				return resp.String(), nil
			}
		}

		if err != nil {
			var nerr net.Error
			if !errors.As(err, &nerr) || !nerr.Timeout() {
				// Closed or faulted peer: no more data will arrive. Keep
				// counting silence so the idle budget still bounds the call.
				time.Sleep(c.cfg.PollInterval())
			}

			idle += c.cfg.PollInterval()
			if idle >= c.cfg.IdleTimeout() {
				return "", fmt.Errorf("%w: no reply from %s within %v", ErrIdleTimeout, c.cfg.Addr(), c.cfg.IdleTimeout())
			}
		}
	}
}

// frameChunk scans one raw chunk for the single active STX/ETX pair: the last
// STX seen sets the payload start, the first ETX seen sets the payload end
// and marks the reply complete. When the pair brackets a payload, only that
// slice is returned; otherwise the whole chunk is.
//
// Multiple pairs per chunk (two replies concatenated) have no defined
// semantics in the device protocol; this keeps the single-pair behavior and
// falls back to the whole chunk when the markers don't bracket cleanly.
func frameChunk(chunk []byte) (payload []byte, endFound bool) {
	begin := 0
	end := len(chunk)

	for i, b := range chunk {
		switch b {
		case STX:
			begin = i + 1
		case ETX:
			if !endFound {
				end = i
				endFound = true
			}
		}
	}

	if end > begin {
		return chunk[begin:end], endFound
	}

	return chunk, endFound
}
