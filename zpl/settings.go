package zpl

import (
	"context"
	"fmt"
	"strings"
)

const (
	// settingsCommand requests the device's full configuration dump.
	settingsCommand = "^XA^HZS^XZ"

	// settingsEndText closes the dump's root element. The dump reply carries
	// no ETX byte, so the closing tag is the end-of-reply sentinel.
	settingsEndText = "</ZEBRA-ELTRON-PERSONALITY>"
)

// Settings is a parsed configuration dump, discarded after field extraction;
// it is never cached across calls.
type Settings struct {
	root *Node
	raw  string
}

// GetSettings fetches and parses the printer's configuration dump.
//
// Fails with ErrConnect or ErrIdleTimeout from the transport, or with a
// *ParseError carrying the raw reply text when the dump is malformed.
func (c *Client) GetSettings(ctx context.Context) (*Settings, error) {
	text, err := c.SendCommand(ctx, settingsCommand, settingsEndText)
	if err != nil {
		return nil, err
	}

	root, err := c.cfg.GetParser().Parse(text)
	if err != nil {
		return nil, &ParseError{Addr: c.cfg.Addr(), Raw: text, Err: err}
	}

	return &Settings{root: root, raw: text}, nil
}

// GetSettings fetches the configuration dump of the printer at host:port with
// a one-off client. A port <= 0 selects DefaultPort.
func GetSettings(ctx context.Context, host string, port int, opts ...ConnOption) (*Settings, error) {
	cfg, err := NewConnectionConfig(host, port, opts...)
	if err != nil {
		return nil, err
	}

	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return client.GetSettings(ctx)
}

// Raw returns the reply text the document was parsed from.
func (s *Settings) Raw() string { return s.raw }

// Root returns the root node of the parsed document.
func (s *Settings) Root() *Node { return s.root }

// Field returns the trimmed text of the node at the given path below the
// document root. Fails with ErrFieldMissing if any node on the path is
// absent; devices differ in which fields their dumps carry.
func (s *Settings) Field(path ...string) (string, error) {
	node, ok := s.root.Lookup(path...)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrFieldMissing, strings.Join(path, "/"))
	}

	return strings.TrimSpace(node.Text), nil
}

// Name returns the printer's display name.
func (s *Settings) Name() (string, error) {
	return s.Field("SAVED-SETTINGS", "NAME")
}

// CurrentPrintMode returns the currently active print mode.
func (s *Settings) CurrentPrintMode() (string, error) {
	return s.Field("SAVED-SETTINGS", "PRINT-MODE", "MODE", "CURRENT")
}

// StoredPrintMode returns the persisted print mode.
func (s *Settings) StoredPrintMode() (string, error) {
	return s.Field("SAVED-SETTINGS", "PRINT-MODE", "MODE", "STORED")
}
