package live

import (
	"context"
	"time"

	"github.com/nickkhg/rewind/internal/store"
)

// Gateway is the persistence surface the live engine depends on. Every
// operation is atomic on its own; multi-step invariants (vote limit checks,
// read-modify-write toggles) are sequences of calls with documented race
// windows. Implemented by store.PostgresStore.
type Gateway interface {
	GetBoard(ctx context.Context, boardID string) (store.Board, error)
	FacilitatorToken(ctx context.Context, boardID string) (string, error)
	FacilitatorID(ctx context.Context, boardID string) (string, error)
	IsAnonymous(ctx context.Context, boardID string) (bool, error)
	ColumnBelongsToBoard(ctx context.Context, columnID, boardID string) (bool, error)

	AddTicket(ctx context.Context, columnID string, ticket store.Ticket) error
	RemoveTicket(ctx context.Context, ticketID string) error
	EditTicket(ctx context.Context, ticketID, content string) error
	TicketAuthor(ctx context.Context, ticketID string) (string, error)
	TicketColumn(ctx context.Context, ticketID string) (string, error)

	HasVote(ctx context.Context, ticketID, participantID string) (bool, error)
	CountVotesInColumn(ctx context.Context, columnID, participantID string) (int, error)
	ToggleVote(ctx context.Context, ticketID, participantID string) error

	BlurState(ctx context.Context, boardID string) (bool, error)
	SetBlur(ctx context.Context, boardID string, blurred bool) error
	HideVotesState(ctx context.Context, boardID string) (bool, error)
	SetHideVotes(ctx context.Context, boardID string, hidden bool) error
	VoteLimit(ctx context.Context, boardID string) (*int, error)
	SetVoteLimit(ctx context.Context, boardID string, limit *int) error
	SetTimerEnd(ctx context.Context, boardID string, end *time.Time) error

	MergeTickets(ctx context.Context, sourceID, targetID string) (*store.MergeSnapshot, error)
	UndoMerge(ctx context.Context, snapshot store.MergeSnapshot) error
	SplitTicket(ctx context.Context, ticketID string, segmentIndex int, newID, authorID, authorName string) (bool, error)
}
