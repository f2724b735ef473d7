package protocol

import (
	"time"

	"github.com/nickkhg/rewind/internal/store"
)

// BoardView is the client-facing projection of a board. It never carries the
// facilitator token or identity.
type BoardView struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Columns          []ColumnView `json:"columns"`
	IsBlurred        bool         `json:"is_blurred"`
	HideVotes        bool         `json:"hide_votes"`
	IsAnonymous      bool         `json:"is_anonymous"`
	CreatedAt        time.Time    `json:"created_at"`
	ParticipantCount int          `json:"participant_count"`
	VoteLimit        *int         `json:"vote_limit,omitempty"`
	TimerEnd         *time.Time   `json:"timer_end,omitempty"`
}

type ColumnView struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Tickets []TicketView `json:"tickets"`
}

type TicketView struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Votes      []string  `json:"votes"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewBoardView(board store.Board, participantCount int) BoardView {
	columns := make([]ColumnView, 0, len(board.Columns))
	for _, column := range board.Columns {
		tickets := make([]TicketView, 0, len(column.Tickets))
		for _, ticket := range column.Tickets {
			votes := ticket.Votes
			if votes == nil {
				votes = []string{}
			}
			tickets = append(tickets, TicketView{
				ID:         ticket.ID,
				Content:    ticket.Content,
				AuthorID:   ticket.AuthorID,
				AuthorName: ticket.AuthorName,
				Votes:      votes,
				CreatedAt:  ticket.CreatedAt,
			})
		}
		columns = append(columns, ColumnView{ID: column.ID, Name: column.Name, Tickets: tickets})
	}
	return BoardView{
		ID:               board.ID,
		Title:            board.Title,
		Columns:          columns,
		IsBlurred:        board.IsBlurred,
		HideVotes:        board.HideVotes,
		IsAnonymous:      board.IsAnonymous,
		CreatedAt:        board.CreatedAt,
		ParticipantCount: participantCount,
		VoteLimit:        board.VoteLimit,
		TimerEnd:         board.TimerEnd,
	}
}
