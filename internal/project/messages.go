package project

import (
	"encoding/json"
	"fmt"
)

// Wire protocol: UTF-8 JSON text frames tagged with a "type" field. Inbound
// frames are decoded in two steps, envelope first, then the per-type shape.

// Inbound message types.
const (
	MsgCursor        = "cursor"
	MsgUpdate        = "update"
	MsgJoin          = "join"
	MsgLeave         = "leave"
	MsgLockSection   = "lock-section"
	MsgUnlockSection = "unlock-section"
)

// Outbound message types.
const (
	MsgInit    = "init"
	MsgSession = "session"
	MsgState   = "state"
	MsgUsers   = "users"
	MsgCursors = "cursors"
	MsgError   = "error"
)

type envelope struct {
	Type string `json:"type"`
}

// CursorMessage updates the sender's presence cursor.
type CursorMessage struct {
	UserName string         `json:"userName"`
	Position CursorPosition `json:"position"`
}

// UpdateMessage proposes a partial document change.
type UpdateMessage struct {
	State    Update `json:"state"`
	UserName string `json:"userName"`
}

// JoinMessage announces a user on the channel.
type JoinMessage struct {
	User User `json:"user"`
}

// SectionMessage locks or unlocks one section.
type SectionMessage struct {
	Section  string `json:"section"`
	UserName string `json:"userName"`
}

// Inbound is one decoded client frame; exactly one payload field is set,
// matching Type.
type Inbound struct {
	Type    string
	Cursor  *CursorMessage
	Update  *UpdateMessage
	Join    *JoinMessage
	Section *SectionMessage
}

// DecodeInbound parses a raw frame into a typed message. Unknown or
// malformed frames return an error; the channel is expected to survive.
func DecodeInbound(data []byte) (*Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}

	msg := &Inbound{Type: env.Type}
	switch env.Type {
	case MsgCursor:
		msg.Cursor = &CursorMessage{}
		if err := json.Unmarshal(data, msg.Cursor); err != nil {
			return nil, fmt.Errorf("malformed cursor message: %w", err)
		}
	case MsgUpdate:
		msg.Update = &UpdateMessage{}
		if err := json.Unmarshal(data, msg.Update); err != nil {
			return nil, fmt.Errorf("malformed update message: %w", err)
		}
	case MsgJoin:
		msg.Join = &JoinMessage{}
		if err := json.Unmarshal(data, msg.Join); err != nil {
			return nil, fmt.Errorf("malformed join message: %w", err)
		}
	case MsgLeave:
		// No payload.
	case MsgLockSection, MsgUnlockSection:
		msg.Section = &SectionMessage{}
		if err := json.Unmarshal(data, msg.Section); err != nil {
			return nil, fmt.Errorf("malformed section message: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown message type: %q", env.Type)
	}
	return msg, nil
}

type initMessage struct {
	Type    string                    `json:"type"`
	State   State                     `json:"state"`
	Cursors map[string]CursorPosition `json:"cursors"`
}

type sessionMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type stateMessage struct {
	Type  string `json:"type"`
	State State  `json:"state"`
}

type usersMessage struct {
	Type  string `json:"type"`
	Users []User `json:"users"`
}

type cursorsMessage struct {
	Type    string                    `json:"type"`
	Cursors map[string]CursorPosition `json:"cursors"`
}

type errorMessage struct {
	Type    string   `json:"type"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func marshal(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		// All outbound shapes are plain data; this cannot fail at runtime.
		panic(err)
	}
	return data
}
