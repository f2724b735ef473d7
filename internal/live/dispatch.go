package live

import (
	"context"
	"log"
	"time"

	"github.com/nickkhg/rewind/internal/protocol"
	"github.com/nickkhg/rewind/internal/store"
	"github.com/nickkhg/rewind/internal/util"
)

const (
	minTimerSecs = 1
	maxTimerSecs = 3600
)

// Sender identifies the authenticated connection a command arrived on. It is
// fixed by the join handshake and never re-evaluated.
type Sender struct {
	BoardID       string
	ParticipantID string
	Name          string
	IsFacilitator bool
}

// Dispatcher applies one validated mutation per inbound command. Every
// authorization or validation failure is a silent no-op: unauthorized senders
// learn nothing about the board's structure, they simply see no state change.
type Dispatcher struct {
	gateway   Gateway
	snapshots *SnapshotStore
}

func NewDispatcher(gateway Gateway, snapshots *SnapshotStore) *Dispatcher {
	return &Dispatcher{gateway: gateway, snapshots: snapshots}
}

// Dispatch applies msg on behalf of sender and reports whether board state
// changed (and therefore must be re-broadcast).
func (d *Dispatcher) Dispatch(ctx context.Context, sender Sender, msg protocol.ClientMessage) bool {
	switch msg.Type {
	case protocol.TypeJoin:
		// Already joined; a second Join changes nothing.
		return false
	case protocol.TypeAddTicket:
		return d.addTicket(ctx, sender, msg.AddTicket)
	case protocol.TypeRemoveTicket:
		return d.removeTicket(ctx, sender, msg.RemoveTicket)
	case protocol.TypeEditTicket:
		return d.editTicket(ctx, sender, msg.EditTicket)
	case protocol.TypeToggleVote:
		return d.toggleVote(ctx, sender, msg.ToggleVote)
	case protocol.TypeToggleBlur:
		return d.toggleBlur(ctx, sender)
	case protocol.TypeToggleHideVotes:
		return d.toggleHideVotes(ctx, sender)
	case protocol.TypeMergeTickets:
		return d.mergeTickets(ctx, sender, msg.MergeTickets)
	case protocol.TypeUndoMerge:
		return d.undoMerge(ctx, sender)
	case protocol.TypeSplitTicket:
		return d.splitTicket(ctx, sender, msg.SplitTicket)
	case protocol.TypeSetVoteLimit:
		return d.setVoteLimit(ctx, sender, msg.SetVoteLimit)
	case protocol.TypeStartTimer:
		return d.startTimer(ctx, sender, msg.StartTimer)
	case protocol.TypeStopTimer:
		return d.stopTimer(ctx, sender)
	default:
		return false
	}
}

func (d *Dispatcher) addTicket(ctx context.Context, sender Sender, payload *protocol.AddTicket) bool {
	belongs, err := d.gateway.ColumnBelongsToBoard(ctx, payload.ColumnID, sender.BoardID)
	if err != nil || !belongs {
		return false
	}

	ticket := store.Ticket{
		ID:         util.NewID("t"),
		Content:    payload.Content,
		AuthorID:   sender.ParticipantID,
		AuthorName: sender.Name,
		CreatedAt:  time.Now().UTC(),
	}
	if err := d.gateway.AddTicket(ctx, payload.ColumnID, ticket); err != nil {
		log.Printf("live: add ticket: %v", err)
		return false
	}
	return true
}

func (d *Dispatcher) removeTicket(ctx context.Context, sender Sender, payload *protocol.RemoveTicket) bool {
	authorID, err := d.gateway.TicketAuthor(ctx, payload.TicketID)
	if err != nil {
		return false
	}
	if authorID != sender.ParticipantID && !sender.IsFacilitator {
		return false
	}

	if err := d.gateway.RemoveTicket(ctx, payload.TicketID); err != nil {
		log.Printf("live: remove ticket: %v", err)
		return false
	}
	return true
}

func (d *Dispatcher) editTicket(ctx context.Context, sender Sender, payload *protocol.EditTicket) bool {
	authorID, err := d.gateway.TicketAuthor(ctx, payload.TicketID)
	if err != nil || authorID != sender.ParticipantID {
		return false
	}

	if err := d.gateway.EditTicket(ctx, payload.TicketID, payload.Content); err != nil {
		log.Printf("live: edit ticket: %v", err)
		return false
	}
	return true
}

func (d *Dispatcher) toggleVote(ctx context.Context, sender Sender, payload *protocol.ToggleVote) bool {
	alreadyVoted, err := d.gateway.HasVote(ctx, payload.TicketID, sender.ParticipantID)
	if err != nil {
		log.Printf("live: check vote: %v", err)
		return false
	}

	if !alreadyVoted {
		// Adding a vote: enforce the per-column limit. The check and the
		// toggle are separate gateway calls; truly simultaneous votes from
		// one participant can transiently exceed the limit by their count.
		if limit, err := d.gateway.VoteLimit(ctx, sender.BoardID); err == nil && limit != nil {
			columnID, err := d.gateway.TicketColumn(ctx, payload.TicketID)
			if err != nil {
				return false
			}
			count, err := d.gateway.CountVotesInColumn(ctx, columnID, sender.ParticipantID)
			if err != nil {
				log.Printf("live: count votes: %v", err)
				return false
			}
			if count >= *limit {
				return false
			}
		}
	}

	if err := d.gateway.ToggleVote(ctx, payload.TicketID, sender.ParticipantID); err != nil {
		log.Printf("live: toggle vote: %v", err)
		return false
	}
	return true
}

func (d *Dispatcher) toggleBlur(ctx context.Context, sender Sender) bool {
	if !sender.IsFacilitator {
		return false
	}
	current, err := d.gateway.BlurState(ctx, sender.BoardID)
	if err != nil {
		return false
	}
	if err := d.gateway.SetBlur(ctx, sender.BoardID, !current); err != nil {
		log.Printf("live: toggle blur: %v", err)
		return false
	}
	return true
}

func (d *Dispatcher) toggleHideVotes(ctx context.Context, sender Sender) bool {
	if !sender.IsFacilitator {
		return false
	}
	current, err := d.gateway.HideVotesState(ctx, sender.BoardID)
	if err != nil {
		return false
	}
	if err := d.gateway.SetHideVotes(ctx, sender.BoardID, !current); err != nil {
		log.Printf("live: toggle hide votes: %v", err)
		return false
	}
	return true
}

func (d *Dispatcher) mergeTickets(ctx context.Context, sender Sender, payload *protocol.MergeTickets) bool {
	snapshot, err := d.gateway.MergeTickets(ctx, payload.SourceTicketID, payload.TargetTicketID)
	if err != nil {
		log.Printf("live: merge tickets: %v", err)
		return false
	}
	if snapshot == nil {
		return false
	}
	d.snapshots.Put(sender.BoardID, *snapshot)
	return true
}

func (d *Dispatcher) undoMerge(ctx context.Context, sender Sender) bool {
	snapshot, ok := d.snapshots.Take(sender.BoardID)
	if !ok {
		return false
	}
	if err := d.gateway.UndoMerge(ctx, snapshot); err != nil {
		log.Printf("live: undo merge: %v", err)
		return false
	}
	return true
}

func (d *Dispatcher) splitTicket(ctx context.Context, sender Sender, payload *protocol.SplitTicket) bool {
	authorID, err := d.gateway.TicketAuthor(ctx, payload.TicketID)
	if err != nil {
		return false
	}
	if authorID != sender.ParticipantID && !sender.IsFacilitator {
		return false
	}

	split, err := d.gateway.SplitTicket(ctx, payload.TicketID, payload.SegmentIndex, util.NewID("t"), sender.ParticipantID, sender.Name)
	if err != nil {
		log.Printf("live: split ticket: %v", err)
		return false
	}
	return split
}

func (d *Dispatcher) setVoteLimit(ctx context.Context, sender Sender, payload *protocol.SetVoteLimit) bool {
	if !sender.IsFacilitator {
		return false
	}
	if payload.Limit != nil && *payload.Limit < 1 {
		return false
	}
	if err := d.gateway.SetVoteLimit(ctx, sender.BoardID, payload.Limit); err != nil {
		log.Printf("live: set vote limit: %v", err)
		return false
	}
	return true
}

func (d *Dispatcher) startTimer(ctx context.Context, sender Sender, payload *protocol.StartTimer) bool {
	if !sender.IsFacilitator {
		return false
	}
	if payload.DurationSecs < minTimerSecs || payload.DurationSecs > maxTimerSecs {
		return false
	}
	end := time.Now().UTC().Add(time.Duration(payload.DurationSecs) * time.Second)
	if err := d.gateway.SetTimerEnd(ctx, sender.BoardID, &end); err != nil {
		log.Printf("live: start timer: %v", err)
		return false
	}
	return true
}

func (d *Dispatcher) stopTimer(ctx context.Context, sender Sender) bool {
	if !sender.IsFacilitator {
		return false
	}
	if err := d.gateway.SetTimerEnd(ctx, sender.BoardID, nil); err != nil {
		log.Printf("live: stop timer: %v", err)
		return false
	}
	return true
}
