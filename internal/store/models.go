package store

import "time"

type Board struct {
	ID               string
	Title            string
	Columns          []Column
	IsBlurred        bool
	HideVotes        bool
	IsAnonymous      bool
	CreatedAt        time.Time
	FacilitatorToken string
	FacilitatorID    *string
	VoteLimit        *int
	TimerEnd         *time.Time
}

type Column struct {
	ID      string
	Name    string
	Tickets []Ticket
}

type Ticket struct {
	ID         string
	Content    string
	AuthorID   string
	AuthorName string
	Votes      []string
	CreatedAt  time.Time
}

// MergeSnapshot captures everything needed to undo a single merge: the
// deleted source ticket in full plus the target's pre-merge content.
type MergeSnapshot struct {
	SourceTicket  Ticket
	SourceColumn  string
	TargetID      string
	TargetContent string
}

type Template struct {
	ID          string
	Name        string
	Description string
	Columns     []string
	Position    int
}

type BoardSummary struct {
	ID          string
	Title       string
	CreatedAt   time.Time
	IsAnonymous bool
	ColumnCount int64
	TicketCount int64
}

type AdminStats struct {
	BoardCount  int64
	TicketCount int64
	VoteCount   int64
}

type AdminBoardSummary struct {
	ID          string
	Title       string
	IsBlurred   bool
	CreatedAt   time.Time
	ColumnCount int64
	TicketCount int64
	VoteCount   int64
}
