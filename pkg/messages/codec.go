package messages

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingMessageType is returned when a message has no type field.
	ErrMissingMessageType = errors.New("missing message type")
	// ErrUnknownMessageType is returned for a type this client does not know.
	ErrUnknownMessageType = errors.New("unknown message type")
)

type envelope struct {
	Type string `json:"type"`
}

// EncodeClientMessage serializes msg as one newline-terminated line.
func EncodeClientMessage(msg ClientMessage) ([]byte, error) {
	return encodeTagged(msg.MessageType(), msg)
}

// EncodeServerMessage serializes msg as one newline-terminated line.
func EncodeServerMessage(msg ServerMessage) ([]byte, error) {
	return encodeTagged(msg.MessageType(), msg)
}

// DecodeClientMessage parses a single line into a client message.
func DecodeClientMessage(line []byte) (ClientMessage, error) {
	msgType, err := peekType(line)
	if err != nil {
		return nil, err
	}

	var msg ClientMessage
	switch msgType {
	case MessageTypeClientWelcome:
		msg, err = decodeAs[ClientWelcome](line)
	case MessageTypeClientRejoin:
		msg, err = decodeAs[ClientRejoin](line)
	case MessageTypeClientEndTurn:
		msg, err = decodeAs[ClientEndTurn](line)
	case MessageTypeClientBuild:
		msg, err = decodeAs[ClientBuild](line)
	case MessageTypeClientExcavate:
		msg, err = decodeAs[ClientExcavate](line)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, msgType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize %s message: %w", msgType, err)
	}
	return msg, nil
}

// DecodeServerMessage parses a single line into a server message.
func DecodeServerMessage(line []byte) (ServerMessage, error) {
	msgType, err := peekType(line)
	if err != nil {
		return nil, err
	}

	var msg ServerMessage
	switch msgType {
	case MessageTypeServerWelcome:
		msg, err = decodeAs[ServerWelcome](line)
	case MessageTypeServerEndOfTurn:
		msg, err = decodeAs[ServerEndOfTurn](line)
	case MessageTypeServerError:
		msg, err = decodeAs[ServerError](line)
	case MessageTypeServerGameOver:
		msg, err = decodeAs[ServerGameOver](line)
	case MessageTypeServerDebug:
		msg, err = decodeAs[ServerDebug](line)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, msgType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize %s message: %w", msgType, err)
	}
	return msg, nil
}

// encodeTagged marshals v and inserts the type discriminator as the first field.
func encodeTagged(msgType string, v interface{}) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s message: %w", msgType, err)
	}
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("failed to serialize %s message: not a JSON object", msgType)
	}
	tag, err := json.Marshal(envelope{Type: msgType})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message type: %w", err)
	}

	buf := bytes.NewBuffer(make([]byte, 0, len(tag)+len(body)+1))
	buf.Write(tag[:len(tag)-1])
	if len(body) > 2 {
		buf.WriteByte(',')
		buf.Write(body[1:])
	} else {
		buf.WriteByte('}')
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func peekType(line []byte) (string, error) {
	env := envelope{}
	if err := json.Unmarshal(line, &env); err != nil {
		return "", fmt.Errorf("failed to deserialize message: %w", err)
	}
	if env.Type == "" {
		return "", ErrMissingMessageType
	}
	return env.Type, nil
}

func decodeAs[T any](line []byte) (T, error) {
	var msg T
	err := json.Unmarshal(line, &msg)
	return msg, err
}

// ErrorSubtype selects the client's reaction to a ServerError.
type ErrorSubtype int

const (
	// ErrorSubtypeNone means the server sent no subtype.
	ErrorSubtypeNone ErrorSubtype = iota
	// ErrorSubtypeUnknown is any subtype this client does not react to.
	ErrorSubtypeUnknown
	// ErrorSubtypeInvalidBuild means the attempted build was rejected.
	ErrorSubtypeInvalidBuild
	// ErrorSubtypeBuildActionAlreadyUsed means the player already built this turn.
	ErrorSubtypeBuildActionAlreadyUsed
	// ErrorSubtypeGameAlreadyRunning means the server does not accept this session.
	ErrorSubtypeGameAlreadyRunning
)

func (s ErrorSubtype) String() string {
	switch s {
	case ErrorSubtypeNone:
		return "none"
	case ErrorSubtypeInvalidBuild:
		return "invalid_build_error"
	case ErrorSubtypeBuildActionAlreadyUsed:
		return "build_action_already_used_error"
	case ErrorSubtypeGameAlreadyRunning:
		return "game_already_running"
	default:
		return "unknown"
	}
}

// ParseErrorSubtype maps a wire subtype to an ErrorSubtype. Matching ignores
// case and underscores, so both "invalid_build_error" and "InvalidBuildError"
// are recognised.
func ParseErrorSubtype(s string) ErrorSubtype {
	switch strings.ToLower(strings.ReplaceAll(s, "_", "")) {
	case "invalidbuilderror":
		return ErrorSubtypeInvalidBuild
	case "buildactionalreadyusederror":
		return ErrorSubtypeBuildActionAlreadyUsed
	case "gamealreadyrunning":
		return ErrorSubtypeGameAlreadyRunning
	default:
		return ErrorSubtypeUnknown
	}
}
