package search

import (
	"log"

	"github.com/nickkhg/rewind/internal/store"
)

// Service fronts Meilisearch with a Postgres fallback. Indexing is
// fire-and-forget: a broken index never blocks or fails a live session.
type Service struct {
	meili    *Meili // nil when Meilisearch is not configured
	fallback Searcher
}

// NewService wires the primary and fallback search backends. meili may be nil.
func NewService(meili *Meili, fallback Searcher) *Service {
	return &Service{meili: meili, fallback: fallback}
}

// Search queries Meilisearch when it is healthy, falling back to Postgres
// full-text search otherwise.
func (s *Service) Search(q Query) ([]Result, int, error) {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return results, total, nil
		}
		log.Printf("search: meilisearch query failed, falling back to postgres: %v", err)
	}
	return s.fallback.Search(q)
}

// Backend names the search backend currently answering queries.
func (s *Service) Backend() string {
	if s.meili != nil && s.meili.Healthy() {
		return "meilisearch"
	}
	return "postgres"
}

// IndexBoard pushes the board and its tickets into the search index in the
// background. Implements the live engine's indexer hook.
func (s *Service) IndexBoard(board store.Board) {
	if s.meili == nil {
		return
	}
	record := BoardRecord{ID: board.ID, Title: board.Title}
	var tickets []TicketRecord
	for _, column := range board.Columns {
		for _, ticket := range column.Tickets {
			tickets = append(tickets, TicketRecord{
				ID:         ticket.ID,
				Content:    ticket.Content,
				BoardID:    board.ID,
				ColumnName: column.Name,
			})
		}
	}

	go func() {
		if err := s.meili.IndexBoard(record, tickets); err != nil {
			log.Printf("search: index board %s: %v", board.ID, err)
		}
	}()
}

// DeleteBoard removes a deleted board and its tickets from the index in the
// background.
func (s *Service) DeleteBoard(boardID string) {
	if s.meili == nil {
		return
	}
	go func() {
		if err := s.meili.DeleteBoard(boardID); err != nil {
			log.Printf("search: delete board %s: %v", boardID, err)
		}
	}()
}

// Close stops background work.
func (s *Service) Close() {
	if s.meili != nil {
		s.meili.Close()
	}
}
