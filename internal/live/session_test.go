package live

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/nickkhg/rewind/internal/store"
)

// scriptedConn feeds canned client frames to the session and records
// everything the server writes back.
type scriptedConn struct {
	reads chan []byte

	mu     sync.Mutex
	writes [][]byte
}

func newScriptedConn(frames ...string) *scriptedConn {
	c := &scriptedConn{reads: make(chan []byte, len(frames))}
	for _, frame := range frames {
		c.reads <- []byte(frame)
	}
	return c
}

func (c *scriptedConn) Read(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case data, ok := <-c.reads:
		if !ok {
			return nil, io.EOF
		}
		return data, nil
	}
}

func (c *scriptedConn) Write(_ context.Context, data []byte) error {
	c.mu.Lock()
	c.writes = append(c.writes, data)
	c.mu.Unlock()
	return nil
}

func (c *scriptedConn) close() {
	close(c.reads)
}

func (c *scriptedConn) writtenTypes(t *testing.T) []string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	types := make([]string, 0, len(c.writes))
	for _, data := range c.writes {
		var env struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("server wrote invalid JSON: %v", err)
		}
		types = append(types, env.Type)
	}
	return types
}

func sessionGateway() *fakeGateway {
	return &fakeGateway{
		facilitatorTokenFn: func(context.Context, string) (string, error) { return "secret-token", nil },
		facilitatorIDFn:    func(context.Context, string) (string, error) { return "f_owner", nil },
		isAnonymousFn:      func(context.Context, string) (bool, error) { return false, nil },
		getBoardFn: func(_ context.Context, boardID string) (store.Board, error) {
			return store.Board{ID: boardID, Title: "Sprint 12", CreatedAt: time.Now().UTC()}, nil
		},
	}
}

func newTestHandler(gateway *fakeGateway) *Handler {
	snapshots := NewSnapshotStore()
	return NewHandler(gateway, NewRegistry(), NewDispatcher(gateway, snapshots), nil)
}

func TestHandshakeRejectsCommandsBeforeJoin(t *testing.T) {
	h := newTestHandler(sessionGateway())
	c := newScriptedConn(
		`{"type":"AddTicket","payload":{"column_id":"c_1","content":"too soon"}}`,
		`{"type":"Join","payload":{"participant_name":"Ada"}}`,
	)

	sender, ok := h.handshake(context.Background(), c, "b_1", "")
	if !ok {
		t.Fatal("expected handshake to succeed after the Join")
	}
	if sender.Name != "Ada" || sender.IsFacilitator {
		t.Errorf("unexpected sender: %+v", sender)
	}

	types := c.writtenTypes(t)
	if len(types) < 2 || types[0] != "Error" || types[1] != "Authenticated" {
		t.Errorf("expected Error then Authenticated, got %v", types)
	}
}

func TestHandshakeKeepsWaitingOnMalformedJSON(t *testing.T) {
	h := newTestHandler(sessionGateway())
	c := newScriptedConn(
		`{"type":`,
		`{"type":"Join","payload":{"participant_name":"Ada"}}`,
	)

	if _, ok := h.handshake(context.Background(), c, "b_1", ""); !ok {
		t.Fatal("expected handshake to survive malformed input")
	}
	types := c.writtenTypes(t)
	if types[0] != "Error" {
		t.Errorf("expected an Error reply first, got %v", types)
	}
}

func TestHandshakeBoardNotFound(t *testing.T) {
	gateway := sessionGateway()
	gateway.facilitatorTokenFn = func(context.Context, string) (string, error) {
		return "", sql.ErrNoRows
	}
	h := newTestHandler(gateway)
	c := newScriptedConn(`{"type":"Join","payload":{"participant_name":"Ada"}}`)

	if _, ok := h.handshake(context.Background(), c, "b_missing", ""); ok {
		t.Fatal("expected handshake to fail for a missing board")
	}
	types := c.writtenTypes(t)
	if len(types) != 1 || types[0] != "Error" {
		t.Errorf("expected a single Error, got %v", types)
	}
}

func TestHandshakeLookupFailureTerminates(t *testing.T) {
	gateway := sessionGateway()
	gateway.facilitatorTokenFn = func(context.Context, string) (string, error) {
		return "", errors.New("connection refused")
	}
	h := newTestHandler(gateway)
	c := newScriptedConn(`{"type":"Join","payload":{"participant_name":"Ada"}}`)

	if _, ok := h.handshake(context.Background(), c, "b_1", ""); ok {
		t.Fatal("expected handshake to fail on persistence error")
	}
}

func TestHandshakeFacilitatorByToken(t *testing.T) {
	h := newTestHandler(sessionGateway())
	c := newScriptedConn(`{"type":"Join","payload":{"participant_name":"Grace","facilitator_token":"secret-token"}}`)

	sender, ok := h.handshake(context.Background(), c, "b_1", "")
	if !ok {
		t.Fatal("handshake failed")
	}
	if !sender.IsFacilitator {
		t.Error("expected facilitator via matching token")
	}
}

func TestHandshakeWrongTokenIsNotFacilitator(t *testing.T) {
	h := newTestHandler(sessionGateway())
	c := newScriptedConn(`{"type":"Join","payload":{"participant_name":"Eve","facilitator_token":"guess"}}`)

	sender, ok := h.handshake(context.Background(), c, "b_1", "")
	if !ok {
		t.Fatal("handshake failed")
	}
	if sender.IsFacilitator {
		t.Error("wrong token must not grant facilitator rights")
	}
}

func TestHandshakeFacilitatorByCookie(t *testing.T) {
	h := newTestHandler(sessionGateway())
	c := newScriptedConn(`{"type":"Join","payload":{"participant_name":"Grace"}}`)

	sender, ok := h.handshake(context.Background(), c, "b_1", "f_owner")
	if !ok {
		t.Fatal("handshake failed")
	}
	if !sender.IsFacilitator {
		t.Error("expected facilitator via matching cookie")
	}
}

func TestHandshakeForeignCookieIsNotFacilitator(t *testing.T) {
	h := newTestHandler(sessionGateway())
	c := newScriptedConn(`{"type":"Join","payload":{"participant_name":"Eve"}}`)

	sender, ok := h.handshake(context.Background(), c, "b_1", "f_someone_else")
	if !ok {
		t.Fatal("handshake failed")
	}
	if sender.IsFacilitator {
		t.Error("foreign cookie must not grant facilitator rights")
	}
}

func TestHandshakeAnonymousBoardDiscardsName(t *testing.T) {
	gateway := sessionGateway()
	gateway.isAnonymousFn = func(context.Context, string) (bool, error) { return true, nil }
	h := newTestHandler(gateway)
	c := newScriptedConn(`{"type":"Join","payload":{"participant_name":"Ada"}}`)

	sender, ok := h.handshake(context.Background(), c, "b_1", "")
	if !ok {
		t.Fatal("handshake failed")
	}
	if sender.Name != "" {
		t.Errorf("expected empty name on anonymous board, got %q", sender.Name)
	}
	participants := h.registry.Participants("b_1")
	if len(participants) != 1 || participants[0].Name != "" {
		t.Errorf("registry must not keep the name either: %+v", participants)
	}
}

func TestHandshakeParticipantIDs(t *testing.T) {
	h := newTestHandler(sessionGateway())

	c := newScriptedConn(`{"type":"Join","payload":{"participant_name":"Ada","participant_id":"p_mine"}}`)
	sender, ok := h.handshake(context.Background(), c, "b_1", "")
	if !ok {
		t.Fatal("handshake failed")
	}
	if sender.ParticipantID != "p_mine" {
		t.Errorf("expected client-supplied id kept, got %q", sender.ParticipantID)
	}

	c = newScriptedConn(`{"type":"Join","payload":{"participant_name":"Grace"}}`)
	sender, ok = h.handshake(context.Background(), c, "b_1", "")
	if !ok {
		t.Fatal("handshake failed")
	}
	if sender.ParticipantID == "" {
		t.Error("expected a generated participant id")
	}
}

func TestRunSessionLifecycle(t *testing.T) {
	gateway := sessionGateway()
	added := make(chan store.Ticket, 1)
	gateway.columnBelongsToBoardFn = func(context.Context, string, string) (bool, error) { return true, nil }
	gateway.addTicketFn = func(_ context.Context, _ string, ticket store.Ticket) error {
		added <- ticket
		return nil
	}
	h := newTestHandler(gateway)

	c := newScriptedConn(
		`{"type":"Join","payload":{"participant_name":"Ada"}}`,
		`{"type":"AddTicket","payload":{"column_id":"c_1","content":"ship it"}}`,
	)

	done := make(chan struct{})
	go func() {
		h.run(context.Background(), c, "b_1", "")
		close(done)
	}()

	select {
	case ticket := <-added:
		if ticket.Content != "ship it" {
			t.Errorf("unexpected ticket: %+v", ticket)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the command to be dispatched")
	}

	c.close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the session to end")
	}

	if count := h.registry.ParticipantCount("b_1"); count != 0 {
		t.Errorf("expected participant removed on disconnect, got %d", count)
	}

	types := c.writtenTypes(t)
	if len(types) == 0 || types[0] != "Authenticated" {
		t.Fatalf("expected Authenticated first, got %v", types)
	}
	sawState := false
	for _, typ := range types[1:] {
		if typ == "BoardState" {
			sawState = true
		}
	}
	if !sawState {
		t.Error("expected at least one BoardState frame")
	}
}
