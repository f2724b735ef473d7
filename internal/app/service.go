package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/nickkhg/rewind/internal/adminauth"
	"github.com/nickkhg/rewind/internal/live"
	"github.com/nickkhg/rewind/internal/search"
	"github.com/nickkhg/rewind/internal/store"
	"github.com/nickkhg/rewind/internal/util"
)

// Store is the persistence surface the HTTP service depends on. Implemented
// by store.PostgresStore.
type Store interface {
	CreateBoard(ctx context.Context, board store.Board) error
	GetBoard(ctx context.Context, boardID string) (store.Board, error)
	BoardsByFacilitator(ctx context.Context, facilitatorID string) ([]store.BoardSummary, error)
	ListTemplates(ctx context.Context) ([]store.Template, error)
	CreateTemplate(ctx context.Context, template store.Template) error
	UpdateTemplate(ctx context.Context, template store.Template) (bool, error)
	DeleteTemplate(ctx context.Context, templateID string) (bool, error)
	GlobalStats(ctx context.Context) (store.AdminStats, error)
	ListBoards(ctx context.Context) ([]store.AdminBoardSummary, error)
	DeleteBoard(ctx context.Context, boardID string) (bool, error)
	Ping(ctx context.Context) error
}

// Searcher is the admin search facade. Implemented by search.Service.
type Searcher interface {
	Search(q search.Query) ([]search.Result, int, error)
	DeleteBoard(boardID string)
	Backend() string
}

const maxColumns = 10

// Service implements the request/board CRUD and admin operations behind the
// HTTP surface. Live-session state (participants, hubs, snapshots) is shared
// with the websocket engine.
type Service struct {
	store     Store
	registry  *live.Registry
	snapshots *live.SnapshotStore
	admin     *adminauth.Verifier
	search    Searcher
}

func NewService(st Store, registry *live.Registry, snapshots *live.SnapshotStore, admin *adminauth.Verifier, searcher Searcher) *Service {
	return &Service{
		store:     st,
		registry:  registry,
		snapshots: snapshots,
		admin:     admin,
		search:    searcher,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// CreateBoardRequest contains board creation parameters
type CreateBoardRequest struct {
	Title       string   `json:"title"`
	Columns     []string `json:"columns"`
	IsAnonymous bool     `json:"is_anonymous"`
}

// CreateBoard validates the request and persists a fresh board owned by
// facilitatorID. Boards start blurred so nothing leaks while people trickle
// in.
func (s *Service) CreateBoard(ctx context.Context, req CreateBoardRequest, facilitatorID string) (store.Board, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return store.Board{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required", nil)
	}

	var columns []store.Column
	for _, name := range req.Columns {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		columns = append(columns, store.Column{ID: util.NewID("c"), Name: name})
	}
	if len(columns) == 0 {
		return store.Board{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "at least one column is required", nil)
	}
	if len(columns) > maxColumns {
		return store.Board{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "too many columns", nil)
	}

	board := store.Board{
		ID:               util.NewID("b"),
		Title:            title,
		Columns:          columns,
		IsBlurred:        true,
		IsAnonymous:      req.IsAnonymous,
		CreatedAt:        time.Now().UTC(),
		FacilitatorToken: util.NewToken(),
		FacilitatorID:    &facilitatorID,
	}
	if err := s.store.CreateBoard(ctx, board); err != nil {
		return store.Board{}, err
	}
	return board, nil
}

func (s *Service) GetBoard(ctx context.Context, boardID string) (store.Board, error) {
	return s.store.GetBoard(ctx, boardID)
}

// ParticipantCount reports how many connections are live on a board.
func (s *Service) ParticipantCount(boardID string) int {
	return s.registry.ParticipantCount(boardID)
}

func (s *Service) MyBoards(ctx context.Context, facilitatorID string) ([]store.BoardSummary, error) {
	return s.store.BoardsByFacilitator(ctx, facilitatorID)
}

func (s *Service) Templates(ctx context.Context) ([]store.Template, error) {
	return s.store.ListTemplates(ctx)
}

// VerifyAdmin checks the bearer token against the configured argon2id hash.
func (s *Service) VerifyAdmin(ctx context.Context, token string) bool {
	return s.admin.Verify(ctx, token)
}

// AdminStatsResponse extends the persisted counters with live registry data.
type AdminStatsResponse struct {
	BoardCount         int64 `json:"board_count"`
	TicketCount        int64 `json:"ticket_count"`
	VoteCount          int64 `json:"vote_count"`
	OnlineParticipants int   `json:"online_participants"`
}

func (s *Service) AdminStats(ctx context.Context) (AdminStatsResponse, error) {
	stats, err := s.store.GlobalStats(ctx)
	if err != nil {
		return AdminStatsResponse{}, err
	}
	return AdminStatsResponse{
		BoardCount:         stats.BoardCount,
		TicketCount:        stats.TicketCount,
		VoteCount:          stats.VoteCount,
		OnlineParticipants: s.registry.OnlineTotal(),
	}, nil
}

func (s *Service) AdminBoards(ctx context.Context) ([]store.AdminBoardSummary, error) {
	return s.store.ListBoards(ctx)
}

// AdminBoardDetail returns the full board, facilitator token included.
func (s *Service) AdminBoardDetail(ctx context.Context, boardID string) (store.Board, error) {
	return s.store.GetBoard(ctx, boardID)
}

// AdminDeleteBoard removes the board everywhere: database, live registry,
// pending merge snapshot, and the search index.
func (s *Service) AdminDeleteBoard(ctx context.Context, boardID string) (bool, error) {
	deleted, err := s.store.DeleteBoard(ctx, boardID)
	if err != nil || !deleted {
		return deleted, err
	}
	s.registry.DropBoard(boardID)
	s.snapshots.Drop(boardID)
	if s.search != nil {
		s.search.DeleteBoard(boardID)
	}
	return true, nil
}

// TemplateRequest contains template create/update parameters
type TemplateRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Columns     []string `json:"columns"`
	Position    int      `json:"position"`
}

func (s *Service) CreateTemplate(ctx context.Context, req TemplateRequest) (store.Template, error) {
	template, err := templateFromRequest(req)
	if err != nil {
		return store.Template{}, err
	}
	template.ID = util.NewID("tpl")
	if err := s.store.CreateTemplate(ctx, template); err != nil {
		return store.Template{}, err
	}
	return template, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, templateID string, req TemplateRequest) (store.Template, error) {
	template, err := templateFromRequest(req)
	if err != nil {
		return store.Template{}, err
	}
	template.ID = templateID
	updated, err := s.store.UpdateTemplate(ctx, template)
	if err != nil {
		return store.Template{}, err
	}
	if !updated {
		return store.Template{}, domainError(http.StatusNotFound, "NOT_FOUND", "Template not found", nil)
	}
	return template, nil
}

func (s *Service) DeleteTemplate(ctx context.Context, templateID string) error {
	deleted, err := s.store.DeleteTemplate(ctx, templateID)
	if err != nil {
		return err
	}
	if !deleted {
		return domainError(http.StatusNotFound, "NOT_FOUND", "Template not found", nil)
	}
	return nil
}

func templateFromRequest(req TemplateRequest) (store.Template, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return store.Template{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required", nil)
	}
	var columns []string
	for _, column := range req.Columns {
		column = strings.TrimSpace(column)
		if column == "" {
			continue
		}
		columns = append(columns, column)
	}
	if len(columns) == 0 {
		return store.Template{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "at least one column is required", nil)
	}
	return store.Template{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Columns:     columns,
		Position:    req.Position,
	}, nil
}

// AdminSearch runs a full-text query over boards and tickets.
func (s *Service) AdminSearch(q search.Query) (search.Response, error) {
	results, total, err := s.search.Search(q)
	if err != nil {
		return search.Response{}, err
	}
	if results == nil {
		results = []search.Result{}
	}
	return search.Response{Results: results, Total: total, Query: q.Text}, nil
}

// SearchBackend names the backend currently serving admin search.
func (s *Service) SearchBackend() string {
	if s.search == nil {
		return "none"
	}
	return s.search.Backend()
}
