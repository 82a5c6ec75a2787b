package zpl

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/printops/go-zpl/logger"
)

// Default connection parameters.
const (
	// DefaultPort is the raw printing port Zebra printers listen on.
	DefaultPort = 9100

	// DefaultConnectTimeout bounds the TCP dial.
	DefaultConnectTimeout = 2 * time.Second

	// DefaultIdleTimeout is the budget of consecutive silence after which a
	// read is abandoned. Any incoming data resets it.
	DefaultIdleTimeout = 2 * time.Second

	// DefaultPollInterval is the resolution at which the receive loop checks
	// for incoming data.
	DefaultPollInterval = 50 * time.Millisecond

	// DefaultChunkSize is the maximum number of bytes consumed per read.
	DefaultChunkSize = 1024
)

// ConnectionConfig holds all configuration for querying one printer.
//
// A config is immutable once built and may be shared by concurrent Clients;
// each call opens and closes its own connection.
type ConnectionConfig struct {
	host string
	port int

	connectTimeout time.Duration
	idleTimeout    time.Duration
	pollInterval   time.Duration
	chunkSize      int

	// totalDeadline, when positive, bounds the whole receive regardless of
	// data trickling in. Zero preserves the idle-only behavior.
	totalDeadline time.Duration

	parser Parser
	logger logger.Logger
}

// NewConnectionConfig creates a printer connection configuration.
//
// host is the printer address. port is the TCP port; pass a value <= 0 to use
// DefaultPort. opts are functional options applied in order; see With* functions.
func NewConnectionConfig(host string, port int, opts ...ConnOption) (*ConnectionConfig, error) {
	cfg := &ConnectionConfig{
		connectTimeout: DefaultConnectTimeout,
		idleTimeout:    DefaultIdleTimeout,
		pollInterval:   DefaultPollInterval,
		chunkSize:      DefaultChunkSize,
		parser:         XMLParser{},
		logger:         logger.GetLogger(),
	}

	if err := cfg.setHost(host); err != nil {
		return nil, err
	}
	if err := cfg.setPort(port); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *ConnectionConfig) setHost(host string) error {
	if ip := net.ParseIP(host); ip != nil {
		cfg.host = host
		return nil
	}

	host = strings.TrimPrefix(host, ".")
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return errors.New("zpl: empty host")
	}
	cfg.host = host

	return nil
}

func (cfg *ConnectionConfig) setPort(port int) error {
	if port <= 0 {
		cfg.port = DefaultPort
		return nil
	}
	if port > 65535 {
		return fmt.Errorf("zpl: port %d out of range [1, 65535]", port)
	}
	cfg.port = port

	return nil
}

// --- Getters ---

// Host returns the configured printer address.
func (cfg *ConnectionConfig) Host() string { return cfg.host }

// Port returns the configured TCP port.
func (cfg *ConnectionConfig) Port() int { return cfg.port }

// Addr returns "host:port".
func (cfg *ConnectionConfig) Addr() string {
	return net.JoinHostPort(cfg.host, fmt.Sprintf("%d", cfg.port))
}

// ConnectTimeout returns the TCP dial timeout.
func (cfg *ConnectionConfig) ConnectTimeout() time.Duration { return cfg.connectTimeout }

// IdleTimeout returns the consecutive-silence budget.
func (cfg *ConnectionConfig) IdleTimeout() time.Duration { return cfg.idleTimeout }

// PollInterval returns the receive loop's polling resolution.
func (cfg *ConnectionConfig) PollInterval() time.Duration { return cfg.pollInterval }

// ChunkSize returns the maximum bytes consumed per read.
func (cfg *ConnectionConfig) ChunkSize() int { return cfg.chunkSize }

// TotalDeadline returns the optional absolute receive deadline, or zero if
// only the idle timeout applies.
func (cfg *ConnectionConfig) TotalDeadline() time.Duration { return cfg.totalDeadline }

// GetParser returns the configured document parser.
func (cfg *ConnectionConfig) GetParser() Parser { return cfg.parser }

// GetLogger returns the configured logger.
func (cfg *ConnectionConfig) GetLogger() logger.Logger { return cfg.logger }

// --- ConnOption ---

// ConnOption is a functional option for configuring a ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc func(*ConnectionConfig) error

func (f connOptFunc) apply(cfg *ConnectionConfig) error { return f(cfg) }

// WithConnectTimeout sets the TCP dial timeout.
func WithConnectTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d <= 0 {
			return errors.New("zpl: connect timeout must be positive")
		}
		cfg.connectTimeout = d

		return nil
	})
}

// WithIdleTimeout sets the consecutive-silence budget for reads.
//
// The budget bounds only gaps of silence: data arriving at any rate resets
// it, so it does not cap total call duration. See WithTotalDeadline.
func WithIdleTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d <= 0 {
			return errors.New("zpl: idle timeout must be positive")
		}
		cfg.idleTimeout = d

		return nil
	})
}

// WithPollInterval sets the resolution at which the receive loop checks for
// incoming data. Must not exceed the idle timeout.
func WithPollInterval(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d <= 0 {
			return errors.New("zpl: poll interval must be positive")
		}
		cfg.pollInterval = d

		return nil
	})
}

// WithChunkSize sets the maximum number of bytes consumed per read.
func WithChunkSize(size int) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if size < 1 {
			return errors.New("zpl: chunk size must be >= 1")
		}
		cfg.chunkSize = size

		return nil
	})
}

// WithTotalDeadline sets an absolute ceiling on receive duration.
//
// By default there is none: a peer trickling one byte per idle budget can
// keep a call alive indefinitely. Setting a deadline deviates from that
// behavior and fails the call with ErrDeadlineExceeded once it elapses,
// regardless of data still arriving.
func WithTotalDeadline(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d <= 0 {
			return errors.New("zpl: total deadline must be positive")
		}
		cfg.totalDeadline = d

		return nil
	})
}

// WithParser sets the document parser used by GetSettings.
func WithParser(p Parser) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if p == nil {
			return errors.New("zpl: parser must not be nil")
		}
		cfg.parser = p

		return nil
	})
}

// WithLogger sets the logger for the connection.
func WithLogger(l logger.Logger) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if l == nil {
			return errors.New("zpl: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
