package live

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/coder/websocket"

	"github.com/nickkhg/rewind/internal/protocol"
	"github.com/nickkhg/rewind/internal/store"
	"github.com/nickkhg/rewind/internal/util"
)

// FacilitatorCookie is the long-lived identity cookie tying a browser to the
// boards it created.
const FacilitatorCookie = "facilitator_id"

// BoardIndexer receives the canonical board after every broadcast-worthy
// change. Implementations must not block.
type BoardIndexer interface {
	IndexBoard(board store.Board)
}

// Handler owns the live-session protocol: one websocket per participant,
// join handshake first, then commands in, board snapshots out.
type Handler struct {
	gateway    Gateway
	registry   *Registry
	dispatcher *Dispatcher
	index      BoardIndexer
}

func NewHandler(gateway Gateway, registry *Registry, dispatcher *Dispatcher, index BoardIndexer) *Handler {
	return &Handler{gateway: gateway, registry: registry, dispatcher: dispatcher, index: index}
}

// conn is the subset of the websocket connection the session logic needs.
type conn interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

type wsConn struct {
	c *websocket.Conn
}

func (w *wsConn) Read(ctx context.Context) ([]byte, error) {
	_, data, err := w.c.Read(ctx)
	return data, err
}

func (w *wsConn) Write(ctx context.Context, data []byte) error {
	return w.c.Write(ctx, websocket.MessageText, data)
}

// ServeBoard upgrades the request and runs the session until the client
// disconnects.
func (h *Handler) ServeBoard(w http.ResponseWriter, r *http.Request, boardID string) {
	facilitatorID := ""
	if cookie, err := r.Cookie(FacilitatorCookie); err == nil {
		facilitatorID = cookie.Value
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Boards are joined by link from anywhere; facilitator rights come
		// from the token or cookie, not the origin.
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Printf("live: websocket accept: %v", err)
		return
	}
	defer c.Close(websocket.StatusNormalClosure, "")

	h.run(r.Context(), &wsConn{c: c}, boardID, facilitatorID)
}

func (h *Handler) run(ctx context.Context, c conn, boardID, cookieFacilitatorID string) {
	sender, ok := h.handshake(ctx, c, boardID, cookieFacilitatorID)
	if !ok {
		return
	}
	log.Printf("live: participant %s joined board %s", sender.ParticipantID, boardID)

	hub := h.registry.Hub(boardID)
	sub := hub.Subscribe()

	// The joiner gets the current state immediately; the handshake broadcast
	// may have raced ahead of this subscription.
	if data, ok := h.stateMessage(ctx, boardID); ok {
		if err := c.Write(ctx, data); err != nil {
			hub.Unsubscribe(sub)
			h.leave(boardID, sender.ParticipantID)
			return
		}
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{}, 2)

	// Write pump: forward board snapshots to this client.
	go func() {
		defer func() { done <- struct{}{} }()
		for {
			select {
			case <-sessionCtx.Done():
				return
			case data, ok := <-sub.Messages():
				if !ok {
					return
				}
				if err := c.Write(sessionCtx, data); err != nil {
					return
				}
			}
		}
	}()

	// Read pump: commands are processed strictly in arrival order.
	go func() {
		defer func() { done <- struct{}{} }()
		for {
			data, err := c.Read(sessionCtx)
			if err != nil {
				return
			}
			msg, err := protocol.DecodeClient(data)
			if err != nil {
				log.Printf("live: invalid message from %s: %v", sender.ParticipantID, err)
				continue
			}
			if h.dispatcher.Dispatch(sessionCtx, sender, msg) {
				h.broadcastState(sessionCtx, boardID)
			}
		}
	}()

	// First pump to exit takes the other down with it.
	<-done
	cancel()
	hub.Unsubscribe(sub)
	<-done

	h.leave(boardID, sender.ParticipantID)
	log.Printf("live: participant %s left board %s", sender.ParticipantID, boardID)
}

// handshake blocks until a valid Join arrives (replying with Error to
// anything else) and registers the participant. A missing board or a
// persistence failure ends the connection.
func (h *Handler) handshake(ctx context.Context, c conn, boardID, cookieFacilitatorID string) (Sender, bool) {
	for {
		data, err := c.Read(ctx)
		if err != nil {
			return Sender{}, false
		}

		msg, err := protocol.DecodeClient(data)
		if err != nil {
			h.sendError(ctx, c, fmt.Sprintf("Invalid message: %v", err))
			continue
		}
		if msg.Type != protocol.TypeJoin {
			h.sendError(ctx, c, "Must send Join first")
			continue
		}
		join := msg.Join

		token, err := h.gateway.FacilitatorToken(ctx, boardID)
		if errors.Is(err, sql.ErrNoRows) {
			h.sendError(ctx, c, "Board not found")
			return Sender{}, false
		}
		if err != nil {
			log.Printf("live: join lookup for board %s: %v", boardID, err)
			h.sendError(ctx, c, "Internal error")
			return Sender{}, false
		}

		participantID := join.ParticipantID
		if participantID == "" {
			participantID = util.NewID("p")
		}

		// Dual proof: the shared secret token, or the identity cookie of the
		// browser that created the board. Either alone suffices.
		tokenMatch := join.FacilitatorToken != "" && join.FacilitatorToken == token
		cookieMatch := false
		if cookieFacilitatorID != "" {
			if boardFacilitator, err := h.gateway.FacilitatorID(ctx, boardID); err == nil && boardFacilitator != "" {
				cookieMatch = boardFacilitator == cookieFacilitatorID
			}
		}
		isFacilitator := tokenMatch || cookieMatch

		name := join.ParticipantName
		if anonymous, err := h.gateway.IsAnonymous(ctx, boardID); err == nil && anonymous {
			name = ""
		}

		h.registry.AddParticipant(boardID, Participant{ID: participantID, Name: name})

		reply, err := protocol.EncodeAuthenticated(isFacilitator, participantID)
		if err == nil {
			err = c.Write(ctx, reply)
		}
		if err != nil {
			h.registry.RemoveParticipant(boardID, participantID)
			return Sender{}, false
		}

		h.broadcastState(ctx, boardID)

		return Sender{
			BoardID:       boardID,
			ParticipantID: participantID,
			Name:          name,
			IsFacilitator: isFacilitator,
		}, true
	}
}

func (h *Handler) leave(boardID, participantID string) {
	h.registry.RemoveParticipant(boardID, participantID)
	// The session context is gone by now; the farewell broadcast still has
	// to reach the remaining participants.
	h.broadcastState(context.Background(), boardID)
}

// BroadcastState publishes a fresh canonical snapshot to every subscriber of
// the board. Exposed for the HTTP layer (board deletion).
func (h *Handler) BroadcastState(ctx context.Context, boardID string) {
	h.broadcastState(ctx, boardID)
}

func (h *Handler) broadcastState(ctx context.Context, boardID string) {
	data, ok := h.stateMessage(ctx, boardID)
	if !ok {
		return
	}
	h.registry.Hub(boardID).Publish(data)
}

func (h *Handler) stateMessage(ctx context.Context, boardID string) ([]byte, bool) {
	board, err := h.gateway.GetBoard(ctx, boardID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("live: read board %s: %v", boardID, err)
		}
		return nil, false
	}
	if h.index != nil {
		h.index.IndexBoard(board)
	}
	view := protocol.NewBoardView(board, h.registry.ParticipantCount(boardID))
	data, err := protocol.EncodeBoardState(view)
	if err != nil {
		log.Printf("live: encode board %s: %v", boardID, err)
		return nil, false
	}
	return data, true
}

func (h *Handler) sendError(ctx context.Context, c conn, message string) {
	data, err := protocol.EncodeError(message)
	if err != nil {
		return
	}
	_ = c.Write(ctx, data)
}
