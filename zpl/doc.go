// Package zpl implements a raw-TCP query client for Zebra label printers.
//
// Zebra printers listen on TCP port 9100 and accept ZPL commands as plain
// ASCII lines. Replies are single-byte-per-character text, optionally wrapped
// in STX (0x02) / ETX (0x03) framing bytes. Devices in this class respond
// slowly, in bursts with gaps, or not at all, so the receive loop is driven
// by an idle-reset timeout: any incoming data resets the silence clock, and
// the call fails only after a full idle budget of consecutive silence.
//
// # Receive Loop
//
// [Client.SendCommand] opens a fresh connection per call, writes the command
// followed by a line terminator, and accumulates the reply in fixed-size
// chunks. Each chunk is scanned for at most one active STX/ETX pair (the last
// STX and the first ETX): when the pair brackets a payload, only that slice
// is appended; otherwise the whole chunk is. An optional end-text literal
// terminates the read for commands whose replies carry no ETX byte.
//
// Because the timeout bounds gaps of silence rather than total elapsed time,
// a peer that keeps trickling data can extend a call indefinitely. Callers
// needing a hard ceiling can set [WithTotalDeadline] or cancel the context.
//
// # Settings Retrieval
//
// [Client.GetSettings] issues the ^XA^HZS^XZ configuration dump command and
// parses the XML-like reply into a [Settings] document. Field lookups
// (printer name, current and stored print mode) are performed by the caller
// against the parsed document and fail independently with [ErrFieldMissing]
// when a device omits a node.
//
// Errors are never retried or suppressed internally; every failure reaches
// the caller as a distinct condition inspectable with errors.Is/errors.As.
package zpl
