// Package protocol defines the websocket wire format: JSON envelopes tagged
// by "type" with a "payload" body, snake_case fields throughout.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Client -> server message types.
const (
	TypeJoin           = "Join"
	TypeAddTicket      = "AddTicket"
	TypeRemoveTicket   = "RemoveTicket"
	TypeEditTicket     = "EditTicket"
	TypeToggleVote     = "ToggleVote"
	TypeToggleBlur     = "ToggleBlur"
	TypeToggleHideVotes = "ToggleHideVotes"
	TypeMergeTickets   = "MergeTickets"
	TypeUndoMerge      = "UndoMerge"
	TypeSplitTicket    = "SplitTicket"
	TypeSetVoteLimit   = "SetVoteLimit"
	TypeStartTimer     = "StartTimer"
	TypeStopTimer      = "StopTimer"
)

// Server -> client message types.
const (
	TypeBoardState    = "BoardState"
	TypeAuthenticated = "Authenticated"
	TypeError         = "Error"
)

type Join struct {
	ParticipantName  string `json:"participant_name"`
	FacilitatorToken string `json:"facilitator_token,omitempty"`
	ParticipantID    string `json:"participant_id,omitempty"`
}

type AddTicket struct {
	ColumnID string `json:"column_id"`
	Content  string `json:"content"`
}

type RemoveTicket struct {
	TicketID string `json:"ticket_id"`
}

type EditTicket struct {
	TicketID string `json:"ticket_id"`
	Content  string `json:"content"`
}

type ToggleVote struct {
	TicketID string `json:"ticket_id"`
}

type MergeTickets struct {
	SourceTicketID string `json:"source_ticket_id"`
	TargetTicketID string `json:"target_ticket_id"`
}

type SplitTicket struct {
	TicketID     string `json:"ticket_id"`
	SegmentIndex int    `json:"segment_index"`
}

type SetVoteLimit struct {
	Limit *int `json:"limit"`
}

type StartTimer struct {
	DurationSecs int `json:"duration_secs"`
}

// ClientMessage is a decoded inbound envelope. Exactly one payload field is
// non-nil for payload-carrying types; Type alone identifies the rest.
type ClientMessage struct {
	Type         string
	Join         *Join
	AddTicket    *AddTicket
	RemoveTicket *RemoveTicket
	EditTicket   *EditTicket
	ToggleVote   *ToggleVote
	MergeTickets *MergeTickets
	SplitTicket  *SplitTicket
	SetVoteLimit *SetVoteLimit
	StartTimer   *StartTimer
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func DecodeClient(data []byte) (ClientMessage, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return ClientMessage{}, fmt.Errorf("decode envelope: %w", err)
	}

	msg := ClientMessage{Type: env.Type}
	switch env.Type {
	case TypeJoin:
		msg.Join = &Join{}
		return msg, decodePayload(env.Payload, msg.Join)
	case TypeAddTicket:
		msg.AddTicket = &AddTicket{}
		return msg, decodePayload(env.Payload, msg.AddTicket)
	case TypeRemoveTicket:
		msg.RemoveTicket = &RemoveTicket{}
		return msg, decodePayload(env.Payload, msg.RemoveTicket)
	case TypeEditTicket:
		msg.EditTicket = &EditTicket{}
		return msg, decodePayload(env.Payload, msg.EditTicket)
	case TypeToggleVote:
		msg.ToggleVote = &ToggleVote{}
		return msg, decodePayload(env.Payload, msg.ToggleVote)
	case TypeMergeTickets:
		msg.MergeTickets = &MergeTickets{}
		return msg, decodePayload(env.Payload, msg.MergeTickets)
	case TypeSplitTicket:
		msg.SplitTicket = &SplitTicket{}
		return msg, decodePayload(env.Payload, msg.SplitTicket)
	case TypeSetVoteLimit:
		msg.SetVoteLimit = &SetVoteLimit{}
		return msg, decodePayload(env.Payload, msg.SetVoteLimit)
	case TypeStartTimer:
		msg.StartTimer = &StartTimer{}
		return msg, decodePayload(env.Payload, msg.StartTimer)
	case TypeToggleBlur, TypeToggleHideVotes, TypeUndoMerge, TypeStopTimer:
		return msg, nil
	case "":
		return ClientMessage{}, fmt.Errorf("missing message type")
	default:
		return ClientMessage{}, fmt.Errorf("unknown message type %q", env.Type)
	}
}

func decodePayload(raw json.RawMessage, target any) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

type authenticatedPayload struct {
	IsFacilitator bool   `json:"is_facilitator"`
	ParticipantID string `json:"participant_id"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type boardStatePayload struct {
	Board BoardView `json:"board"`
}

func EncodeBoardState(board BoardView) ([]byte, error) {
	return encode(TypeBoardState, boardStatePayload{Board: board})
}

func EncodeAuthenticated(isFacilitator bool, participantID string) ([]byte, error) {
	return encode(TypeAuthenticated, authenticatedPayload{IsFacilitator: isFacilitator, ParticipantID: participantID})
}

func EncodeError(message string) ([]byte, error) {
	return encode(TypeError, errorPayload{Message: message})
}

func encode(msgType string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", msgType, err)
	}
	return json.Marshal(envelope{Type: msgType, Payload: body})
}
