package wyoming

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Event is one Wyoming protocol message.
//
// On the wire each event is:
//
//	<json_length> <payload_length>\n
//	<json_bytes>\n
//	<payload_bytes>   (if payload_length > 0)
type Event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// maxJSON and maxPayload bound a single event. Headers arrive from the
// network, so nothing is allocated past these limits.
const (
	maxJSON    = 1 << 20
	maxPayload = 1 << 20
)

// WriteEvent sends a Wyoming event.
func WriteEvent(w io.Writer, evt Event, payload []byte) error {
	jsonBytes, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}

	// Header, JSON and payload go out in one write so events never interleave.
	msg := make([]byte, 0, len(jsonBytes)+len(payload)+24)
	msg = fmt.Appendf(msg, "%d %d\n", len(jsonBytes), len(payload))
	msg = append(msg, jsonBytes...)
	msg = append(msg, '\n')
	msg = append(msg, payload...)
	_, err = w.Write(msg)
	return err
}

// ReadEvent reads one Wyoming event.
func ReadEvent(r *bufio.Reader) (*Event, []byte, error) {
	header, err := r.ReadString('\n')
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	parts := strings.Fields(header)
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("invalid wyoming header: %q", strings.TrimSpace(header))
	}
	jsonLen, err := strconv.Atoi(parts[0])
	if err != nil || jsonLen < 0 || jsonLen > maxJSON {
		return nil, nil, fmt.Errorf("invalid json_length %q", parts[0])
	}
	payloadLen, err := strconv.Atoi(parts[1])
	if err != nil || payloadLen < 0 || payloadLen > maxPayload {
		return nil, nil, fmt.Errorf("invalid payload_length %q", parts[1])
	}

	// JSON plus its trailing newline.
	jsonBuf := make([]byte, jsonLen+1)
	if _, err := io.ReadFull(r, jsonBuf); err != nil {
		return nil, nil, fmt.Errorf("reading json: %w", err)
	}

	var evt Event
	if err := json.Unmarshal(jsonBuf[:jsonLen], &evt); err != nil {
		return nil, nil, fmt.Errorf("unmarshalling event: %w", err)
	}

	var payload []byte
	if payloadLen > 0 {
		payload = make([]byte, payloadLen)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, nil, fmt.Errorf("reading payload: %w", err)
		}
	}
	return &evt, payload, nil
}
