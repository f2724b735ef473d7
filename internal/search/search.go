package search

// ResultType identifies the kind of entity in a search result.
type ResultType string

const (
	ResultBoard  ResultType = "board"
	ResultTicket ResultType = "ticket"
)

// Result is a single search hit returned to the admin caller.
type Result struct {
	Type    ResultType `json:"type"`
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Snippet string     `json:"snippet"`
	BoardID string     `json:"board_id"`
}

// Query describes a search request.
type Query struct {
	Text       string
	FilterType ResultType // empty = all types
	Limit      int
	Offset     int
}

// Response is the envelope returned by the admin search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a full-text search.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}

// Indexer can push entities into a search index.
type Indexer interface {
	IndexBoard(b BoardRecord, tickets []TicketRecord) error
	DeleteBoard(boardID string) error
}

// BoardRecord is the data we index for a board.
type BoardRecord struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// TicketRecord is the data we index for a ticket.
type TicketRecord struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	BoardID    string `json:"boardId"`
	ColumnName string `json:"columnName"`
}
