package zpl

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	hostStatusCommand = "~HS"
	hostIDCommand     = "~HI"
)

// HostStatus is the parsed reply to the ~HS host status query: three
// comma-separated status strings covering transport state, flags, and
// firmware counters. Only the commonly consumed fields are broken out.
type HostStatus struct {
	PaperOut        bool
	Paused          bool
	LabelLength     int
	FormatsInBuffer int
	BufferFull      bool
	UnderTemp       bool
	OverTemp        bool
	HeadUp          bool
	RibbonOut       bool

	// Lines holds the three raw status strings for fields not broken out.
	Lines []string
}

// HostID is the parsed reply to the ~HI host identification query.
type HostID struct {
	Model     string
	Firmware  string
	DotsPerMM int
	Memory    string
}

// GetHostStatus queries the printer's host status (~HS).
//
// The reply is a burst of three STX/ETX-framed strings; firmwares emit the
// burst as one write, so the first ETX closes the read with all three strings
// accumulated. A reply carrying fewer than three strings fails with a
// *ParseError.
func (c *Client) GetHostStatus(ctx context.Context) (*HostStatus, error) {
	text, err := c.SendCommand(ctx, hostStatusCommand, "")
	if err != nil {
		return nil, err
	}

	status, err := parseHostStatus(text)
	if err != nil {
		return nil, &ParseError{Addr: c.cfg.Addr(), Raw: text, Err: err}
	}

	return status, nil
}

// GetHostID queries the printer's model, firmware version, head density and
// memory size (~HI).
func (c *Client) GetHostID(ctx context.Context) (*HostID, error) {
	text, err := c.SendCommand(ctx, hostIDCommand, "")
	if err != nil {
		return nil, err
	}

	id, err := parseHostID(text)
	if err != nil {
		return nil, &ParseError{Addr: c.cfg.Addr(), Raw: text, Err: err}
	}

	return id, nil
}

// SetVar sets an SGD variable, e.g. SetVar(ctx, "device.languages", "zpl").
// The setvar command produces no reply; only connect and write failures are
// reported.
func (c *Client) SetVar(ctx context.Context, name, value string) error {
	return c.Send(ctx, fmt.Sprintf("! U1 setvar %q %q", name, value))
}

// statusLines strips residual framing bytes and splits a status reply into
// its non-empty lines.
func statusLines(text string) []string {
	text = strings.Map(func(r rune) rune {
		if r == rune(STX) || r == rune(ETX) {
			return -1
		}
		return r
	}, text)

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

func parseHostStatus(text string) (*HostStatus, error) {
	lines := statusLines(text)
	if len(lines) < 3 {
		return nil, fmt.Errorf("host status reply has %d strings, want 3", len(lines))
	}

	s1 := strings.Split(lines[0], ",")
	s2 := strings.Split(lines[1], ",")
	if len(s1) < 12 || len(s2) < 8 {
		return nil, fmt.Errorf("host status strings truncated: %d and %d fields", len(s1), len(s2))
	}

	status := &HostStatus{
		PaperOut:   s1[1] == "1",
		Paused:     s1[2] == "1",
		BufferFull: s1[5] == "1",
		UnderTemp:  s1[10] == "1",
		OverTemp:   s1[11] == "1",
		HeadUp:     s2[2] == "1",
		RibbonOut:  s2[3] == "1",
		Lines:      lines[:3],
	}

	// Numeric fields; devices pad with leading zeros.
	status.LabelLength, _ = strconv.Atoi(s1[3])
	status.FormatsInBuffer, _ = strconv.Atoi(s1[4])

	return status, nil
}

func parseHostID(text string) (*HostID, error) {
	lines := statusLines(text)
	if len(lines) == 0 {
		return nil, errors.New("empty host identification reply")
	}

	fields := strings.Split(lines[0], ",")
	if len(fields) < 4 {
		return nil, fmt.Errorf("host identification reply has %d fields, want at least 4", len(fields))
	}

	id := &HostID{
		Model:    strings.TrimSpace(fields[0]),
		Firmware: strings.TrimSpace(fields[1]),
		Memory:   strings.TrimSpace(fields[3]),
	}
	id.DotsPerMM, _ = strconv.Atoi(strings.TrimSpace(fields[2]))

	return id, nil
}
