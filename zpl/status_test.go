package zpl

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A ~HS reply as it comes off the wire: three STX/ETX-framed strings emitted
// in one burst.
const sampleHostStatus = "\x02030,1,0,1245,006,0,0,0,000,0,1,0\x03\r\n" +
	"\x02001,0,1,0,0,2,4,0,00000000,1,000\x03\r\n" +
	"\x021234,0\x03\r\n"

func TestParseHostStatus(t *testing.T) {
	status, err := parseHostStatus(sampleHostStatus)
	require.NoError(t, err)

	assert.True(t, status.PaperOut)
	assert.False(t, status.Paused)
	assert.Equal(t, 1245, status.LabelLength)
	assert.Equal(t, 6, status.FormatsInBuffer)
	assert.False(t, status.BufferFull)
	assert.True(t, status.UnderTemp)
	assert.False(t, status.OverTemp)
	assert.True(t, status.HeadUp)
	assert.False(t, status.RibbonOut)
	assert.Len(t, status.Lines, 3)
}

func TestParseHostStatus_Truncated(t *testing.T) {
	_, err := parseHostStatus("\x02030,1,0\x03\r\n")
	require.Error(t, err)
}

func TestParseHostID(t *testing.T) {
	id, err := parseHostID("ZT230,V72.20.01Z,8,2104KB")
	require.NoError(t, err)

	assert.Equal(t, "ZT230", id.Model)
	assert.Equal(t, "V72.20.01Z", id.Firmware)
	assert.Equal(t, 8, id.DotsPerMM)
	assert.Equal(t, "2104KB", id.Memory)
}

func TestParseHostID_Empty(t *testing.T) {
	_, err := parseHostID("")
	require.Error(t, err)
}

func TestGetHostStatus_RoundTrip(t *testing.T) {
	port := startFakePrinter(t, func(conn net.Conn) {
		cmd := readCommandLine(t, conn)
		assert.Equal(t, "~HS", cmd)
		mustWrite(t, conn, []byte(sampleHostStatus))
	})

	client := newTestClient(t, port)

	status, err := client.GetHostStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.PaperOut)
	assert.Equal(t, 1245, status.LabelLength)
}

func TestGetHostID_RoundTrip(t *testing.T) {
	port := startFakePrinter(t, func(conn net.Conn) {
		cmd := readCommandLine(t, conn)
		assert.Equal(t, "~HI", cmd)
		mustWrite(t, conn, []byte("\x02ZT230,V72.20.01Z,8,2104KB\x03"))
	})

	client := newTestClient(t, port)

	id, err := client.GetHostID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ZT230", id.Model)
	assert.Equal(t, 8, id.DotsPerMM)
}

func TestGetHostID_MalformedReply(t *testing.T) {
	port := startFakePrinter(t, func(conn net.Conn) {
		_ = readCommandLine(t, conn)
		mustWrite(t, conn, []byte("\x02ZT230\x03"))
	})

	client := newTestClient(t, port)

	_, err := client.GetHostID(context.Background())
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "ZT230", perr.Raw)
}
