package gateway

import (
	"strconv"
	"time"
)

const (
	typeReport = "report"
	typePong   = "pong"
)

// buildEnvelope wraps data in the WebSocket envelope
// {"type":...,"data":...,"ts":...,"seq":N[,"initial":true]}.
// data must already be valid JSON.
func buildEnvelope(typ string, data []byte, ts time.Time, seq int64, initial bool) []byte {
	buf := make([]byte, 0, len(data)+96)
	buf = append(buf, `{"type":"`...)
	buf = append(buf, typ...)
	buf = append(buf, `","data":`...)
	buf = append(buf, data...)
	buf = append(buf, `,"ts":"`...)
	buf = ts.AppendFormat(buf, time.RFC3339Nano)
	buf = append(buf, `","seq":`...)
	buf = strconv.AppendInt(buf, seq, 10)
	if initial {
		buf = append(buf, `,"initial":true`...)
	}
	buf = append(buf, '}')
	return buf
}
