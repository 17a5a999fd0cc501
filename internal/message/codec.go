package message

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownCommand is returned for a message whose command is not recognised.
var ErrUnknownCommand = errors.New("unknown command")

// DecodeInbound parses a JSON message from the panel.
func DecodeInbound(data []byte) (Inbound, error) {
	var envelope struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	switch envelope.Command {
	case CommandLoadFromURL:
		var m LoadFromURL
		return decodeAs(data, &m)
	case CommandSearch:
		var m Search
		return decodeAs(data, &m)
	case CommandGetTrending:
		return GetTrending{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, envelope.Command)
	}
}

func decodeAs[T Inbound](data []byte, m *T) (Inbound, error) {
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse %s message: %w", (*m).Command(), err)
	}
	return *m, nil
}

// Encode renders any message as JSON with its command tag first.
func Encode(m interface{ Command() string }) ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s message: %w", m.Command(), err)
	}

	tag, err := json.Marshal(m.Command())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"command":`)
	buf.Write(tag)
	if inner := bytes.TrimSpace(body); len(inner) > 2 {
		buf.WriteByte(',')
		buf.Write(inner[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}
