package protocol

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecodeClientJoin(t *testing.T) {
	data := []byte(`{"type":"Join","payload":{"participant_name":"Ada","facilitator_token":"secret","participant_id":"p_1"}}`)
	msg, err := DecodeClient(data)
	if err != nil {
		t.Fatalf("DecodeClient failed: %v", err)
	}
	if msg.Type != TypeJoin {
		t.Errorf("expected type Join, got %q", msg.Type)
	}
	if msg.Join == nil {
		t.Fatal("expected Join payload")
	}
	if msg.Join.ParticipantName != "Ada" {
		t.Errorf("expected participant name Ada, got %q", msg.Join.ParticipantName)
	}
	if msg.Join.FacilitatorToken != "secret" {
		t.Errorf("expected facilitator token, got %q", msg.Join.FacilitatorToken)
	}
	if msg.Join.ParticipantID != "p_1" {
		t.Errorf("expected participant id p_1, got %q", msg.Join.ParticipantID)
	}
}

func TestDecodeClientAddTicket(t *testing.T) {
	data := []byte(`{"type":"AddTicket","payload":{"column_id":"c_1","content":"went well"}}`)
	msg, err := DecodeClient(data)
	if err != nil {
		t.Fatalf("DecodeClient failed: %v", err)
	}
	if msg.AddTicket == nil {
		t.Fatal("expected AddTicket payload")
	}
	if msg.AddTicket.ColumnID != "c_1" || msg.AddTicket.Content != "went well" {
		t.Errorf("unexpected payload: %+v", msg.AddTicket)
	}
}

func TestDecodeClientNoPayloadTypes(t *testing.T) {
	for _, typ := range []string{TypeToggleBlur, TypeToggleHideVotes, TypeUndoMerge, TypeStopTimer} {
		msg, err := DecodeClient([]byte(`{"type":"` + typ + `"}`))
		if err != nil {
			t.Errorf("DecodeClient(%s) failed: %v", typ, err)
			continue
		}
		if msg.Type != typ {
			t.Errorf("expected type %s, got %q", typ, msg.Type)
		}
	}
}

func TestDecodeClientMissingPayload(t *testing.T) {
	_, err := DecodeClient([]byte(`{"type":"AddTicket"}`))
	if err == nil {
		t.Error("expected error for missing payload, got nil")
	}
}

func TestDecodeClientMissingType(t *testing.T) {
	_, err := DecodeClient([]byte(`{"payload":{}}`))
	if err == nil {
		t.Error("expected error for missing type, got nil")
	}
}

func TestDecodeClientUnknownType(t *testing.T) {
	_, err := DecodeClient([]byte(`{"type":"SelfDestruct"}`))
	if err == nil {
		t.Error("expected error for unknown type, got nil")
	}
}

func TestDecodeClientMalformedJSON(t *testing.T) {
	_, err := DecodeClient([]byte(`{"type":`))
	if err == nil {
		t.Error("expected error for malformed JSON, got nil")
	}
}

func TestDecodeClientSetVoteLimitNull(t *testing.T) {
	msg, err := DecodeClient([]byte(`{"type":"SetVoteLimit","payload":{"limit":null}}`))
	if err != nil {
		t.Fatalf("DecodeClient failed: %v", err)
	}
	if msg.SetVoteLimit == nil {
		t.Fatal("expected SetVoteLimit payload")
	}
	if msg.SetVoteLimit.Limit != nil {
		t.Errorf("expected nil limit, got %v", *msg.SetVoteLimit.Limit)
	}
}

func TestEncodeError(t *testing.T) {
	data, err := EncodeError("Must send Join first")
	if err != nil {
		t.Fatalf("EncodeError failed: %v", err)
	}

	var env struct {
		Type    string `json:"type"`
		Payload struct {
			Message string `json:"message"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Type != TypeError {
		t.Errorf("expected type Error, got %q", env.Type)
	}
	if env.Payload.Message != "Must send Join first" {
		t.Errorf("unexpected message: %q", env.Payload.Message)
	}
}

func TestEncodeAuthenticated(t *testing.T) {
	data, err := EncodeAuthenticated(true, "p_42")
	if err != nil {
		t.Fatalf("EncodeAuthenticated failed: %v", err)
	}

	var env struct {
		Type    string `json:"type"`
		Payload struct {
			IsFacilitator bool   `json:"is_facilitator"`
			ParticipantID string `json:"participant_id"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Type != TypeAuthenticated {
		t.Errorf("expected type Authenticated, got %q", env.Type)
	}
	if !env.Payload.IsFacilitator || env.Payload.ParticipantID != "p_42" {
		t.Errorf("unexpected payload: %+v", env.Payload)
	}
}

func TestEncodeBoardStateOmitsSecrets(t *testing.T) {
	view := BoardView{
		ID:        "b_1",
		Title:     "Sprint 12",
		Columns:   []ColumnView{},
		CreatedAt: time.Now().UTC(),
	}
	data, err := EncodeBoardState(view)
	if err != nil {
		t.Fatalf("EncodeBoardState failed: %v", err)
	}

	var env struct {
		Type    string `json:"type"`
		Payload struct {
			Board map[string]any `json:"board"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Type != TypeBoardState {
		t.Errorf("expected type BoardState, got %q", env.Type)
	}
	if _, ok := env.Payload.Board["facilitator_token"]; ok {
		t.Error("board state must not expose the facilitator token")
	}
	if _, ok := env.Payload.Board["vote_limit"]; ok {
		t.Error("expected vote_limit omitted when unset")
	}
	if _, ok := env.Payload.Board["timer_end"]; ok {
		t.Error("expected timer_end omitted when unset")
	}
}
