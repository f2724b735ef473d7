package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Boards ---

func (s *PostgresStore) CreateBoard(ctx context.Context, board Board) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create board: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO boards (id, title, facilitator_token, facilitator_id, is_blurred, hide_votes, is_anonymous, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, board.ID, board.Title, board.FacilitatorToken, board.FacilitatorID, board.IsBlurred, board.HideVotes, board.IsAnonymous, board.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert board: %w", err)
	}

	for pos, column := range board.Columns {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO columns (id, board_id, name, position)
			VALUES ($1, $2, $3, $4)
		`, column.ID, board.ID, column.Name, pos)
		if err != nil {
			return fmt.Errorf("insert column: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create board: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetBoard(ctx context.Context, boardID string) (Board, error) {
	var board Board
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, is_blurred, hide_votes, is_anonymous, facilitator_token, facilitator_id, vote_limit, timer_end, created_at
		FROM boards
		WHERE id=$1
	`, boardID).Scan(&board.ID, &board.Title, &board.IsBlurred, &board.HideVotes, &board.IsAnonymous,
		&board.FacilitatorToken, &board.FacilitatorID, &board.VoteLimit, &board.TimerEnd, &board.CreatedAt)
	if err != nil {
		return Board{}, err
	}

	columns, err := s.boardColumns(ctx, boardID)
	if err != nil {
		return Board{}, err
	}
	board.Columns = columns
	return board, nil
}

func (s *PostgresStore) boardColumns(ctx context.Context, boardID string) ([]Column, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name FROM columns WHERE board_id=$1 ORDER BY position
	`, boardID)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	defer rows.Close()

	columns := make([]Column, 0)
	index := make(map[string]int)
	for rows.Next() {
		var column Column
		if err := rows.Scan(&column.ID, &column.Name); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		column.Tickets = make([]Ticket, 0)
		index[column.ID] = len(columns)
		columns = append(columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	ticketRows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.column_id, t.content, t.author_id, t.author_name, t.created_at
		FROM tickets t
		JOIN columns c ON c.id = t.column_id
		WHERE c.board_id=$1
		ORDER BY t.created_at
	`, boardID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer ticketRows.Close()

	ticketColumn := make(map[string]string)
	for ticketRows.Next() {
		var ticket Ticket
		var columnID string
		if err := ticketRows.Scan(&ticket.ID, &columnID, &ticket.Content, &ticket.AuthorID, &ticket.AuthorName, &ticket.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		ticket.Votes = make([]string, 0)
		ticketColumn[ticket.ID] = columnID
		if i, ok := index[columnID]; ok {
			columns[i].Tickets = append(columns[i].Tickets, ticket)
		}
	}
	if err := ticketRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}

	voteRows, err := s.db.QueryContext(ctx, `
		SELECT v.ticket_id, v.participant_id
		FROM votes v
		JOIN tickets t ON t.id = v.ticket_id
		JOIN columns c ON c.id = t.column_id
		WHERE c.board_id=$1
	`, boardID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer voteRows.Close()

	for voteRows.Next() {
		var ticketID, participantID string
		if err := voteRows.Scan(&ticketID, &participantID); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		columnID, ok := ticketColumn[ticketID]
		if !ok {
			continue
		}
		i := index[columnID]
		for j := range columns[i].Tickets {
			if columns[i].Tickets[j].ID == ticketID {
				columns[i].Tickets[j].Votes = append(columns[i].Tickets[j].Votes, participantID)
				break
			}
		}
	}
	if err := voteRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}

	return columns, nil
}

func (s *PostgresStore) FacilitatorToken(ctx context.Context, boardID string) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT facilitator_token FROM boards WHERE id=$1`, boardID).Scan(&token)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *PostgresStore) FacilitatorID(ctx context.Context, boardID string) (string, error) {
	var facilitatorID sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT facilitator_id FROM boards WHERE id=$1`, boardID).Scan(&facilitatorID)
	if err != nil {
		return "", err
	}
	return facilitatorID.String, nil
}

func (s *PostgresStore) IsAnonymous(ctx context.Context, boardID string) (bool, error) {
	var anonymous bool
	err := s.db.QueryRowContext(ctx, `SELECT is_anonymous FROM boards WHERE id=$1`, boardID).Scan(&anonymous)
	if err != nil {
		return false, err
	}
	return anonymous, nil
}

func (s *PostgresStore) BoardsByFacilitator(ctx context.Context, facilitatorID string) ([]BoardSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			b.id,
			b.title,
			b.created_at,
			b.is_anonymous,
			(SELECT COUNT(*) FROM columns c WHERE c.board_id = b.id) AS column_count,
			(SELECT COUNT(*) FROM tickets t JOIN columns c ON t.column_id = c.id WHERE c.board_id = b.id) AS ticket_count
		FROM boards b
		WHERE b.facilitator_id = $1
		ORDER BY b.created_at DESC
	`, facilitatorID)
	if err != nil {
		return nil, fmt.Errorf("list boards by facilitator: %w", err)
	}
	defer rows.Close()

	items := make([]BoardSummary, 0)
	for rows.Next() {
		var item BoardSummary
		if err := rows.Scan(&item.ID, &item.Title, &item.CreatedAt, &item.IsAnonymous, &item.ColumnCount, &item.TicketCount); err != nil {
			return nil, fmt.Errorf("scan board summary: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate board summaries: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) ColumnBelongsToBoard(ctx context.Context, columnID, boardID string) (bool, error) {
	var belongs bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM columns WHERE id=$1 AND board_id=$2)
	`, columnID, boardID).Scan(&belongs)
	if err != nil {
		return false, fmt.Errorf("check column ownership: %w", err)
	}
	return belongs, nil
}

// --- Tickets ---

func (s *PostgresStore) AddTicket(ctx context.Context, columnID string, ticket Ticket) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tickets (id, column_id, content, author_id, author_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ticket.ID, columnID, ticket.Content, ticket.AuthorID, ticket.AuthorName, ticket.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (s *PostgresStore) RemoveTicket(ctx context.Context, ticketID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tickets WHERE id=$1`, ticketID)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	return nil
}

func (s *PostgresStore) EditTicket(ctx context.Context, ticketID, content string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE tickets SET content=$1 WHERE id=$2`, content, ticketID)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	return nil
}

func (s *PostgresStore) TicketAuthor(ctx context.Context, ticketID string) (string, error) {
	var authorID string
	err := s.db.QueryRowContext(ctx, `SELECT author_id FROM tickets WHERE id=$1`, ticketID).Scan(&authorID)
	if err != nil {
		return "", err
	}
	return authorID, nil
}

func (s *PostgresStore) TicketColumn(ctx context.Context, ticketID string) (string, error) {
	var columnID string
	err := s.db.QueryRowContext(ctx, `SELECT column_id FROM tickets WHERE id=$1`, ticketID).Scan(&columnID)
	if err != nil {
		return "", err
	}
	return columnID, nil
}

// --- Votes ---

func (s *PostgresStore) HasVote(ctx context.Context, ticketID, participantID string) (bool, error) {
	var voted bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM votes WHERE ticket_id=$1 AND participant_id=$2)
	`, ticketID, participantID).Scan(&voted)
	if err != nil {
		return false, fmt.Errorf("check vote: %w", err)
	}
	return voted, nil
}

func (s *PostgresStore) CountVotesInColumn(ctx context.Context, columnID, participantID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM votes v
		JOIN tickets t ON t.id = v.ticket_id
		WHERE t.column_id=$1 AND v.participant_id=$2
	`, columnID, participantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count votes in column: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) ToggleVote(ctx context.Context, ticketID, participantID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM votes WHERE ticket_id=$1 AND participant_id=$2
	`, ticketID, participantID)
	if err != nil {
		return fmt.Errorf("remove vote: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove vote result: %w", err)
	}
	if deleted == 0 {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO votes (ticket_id, participant_id) VALUES ($1, $2)
			ON CONFLICT (ticket_id, participant_id) DO NOTHING
		`, ticketID, participantID)
		if err != nil {
			return fmt.Errorf("add vote: %w", err)
		}
	}
	return nil
}

// --- Board settings ---

func (s *PostgresStore) BlurState(ctx context.Context, boardID string) (bool, error) {
	var blurred bool
	err := s.db.QueryRowContext(ctx, `SELECT is_blurred FROM boards WHERE id=$1`, boardID).Scan(&blurred)
	if err != nil {
		return false, err
	}
	return blurred, nil
}

func (s *PostgresStore) SetBlur(ctx context.Context, boardID string, blurred bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE boards SET is_blurred=$1 WHERE id=$2`, blurred, boardID)
	if err != nil {
		return fmt.Errorf("set blur: %w", err)
	}
	return nil
}

func (s *PostgresStore) HideVotesState(ctx context.Context, boardID string) (bool, error) {
	var hidden bool
	err := s.db.QueryRowContext(ctx, `SELECT hide_votes FROM boards WHERE id=$1`, boardID).Scan(&hidden)
	if err != nil {
		return false, err
	}
	return hidden, nil
}

func (s *PostgresStore) SetHideVotes(ctx context.Context, boardID string, hidden bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE boards SET hide_votes=$1 WHERE id=$2`, hidden, boardID)
	if err != nil {
		return fmt.Errorf("set hide votes: %w", err)
	}
	return nil
}

func (s *PostgresStore) VoteLimit(ctx context.Context, boardID string) (*int, error) {
	var limit *int
	err := s.db.QueryRowContext(ctx, `SELECT vote_limit FROM boards WHERE id=$1`, boardID).Scan(&limit)
	if err != nil {
		return nil, err
	}
	return limit, nil
}

func (s *PostgresStore) SetVoteLimit(ctx context.Context, boardID string, limit *int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE boards SET vote_limit=$1 WHERE id=$2`, limit, boardID)
	if err != nil {
		return fmt.Errorf("set vote limit: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetTimerEnd(ctx context.Context, boardID string, end *time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE boards SET timer_end=$1 WHERE id=$2`, end, boardID)
	if err != nil {
		return fmt.Errorf("set timer end: %w", err)
	}
	return nil
}

// --- Merge / split ---

// MergeTickets folds the source ticket's content and votes into the target and
// deletes the source. Returns nil when either ticket is missing.
func (s *PostgresStore) MergeTickets(ctx context.Context, sourceID, targetID string) (*MergeSnapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin merge: %w", err)
	}
	defer tx.Rollback()

	var source Ticket
	var sourceColumn string
	err = tx.QueryRowContext(ctx, `
		SELECT id, column_id, content, author_id, author_name, created_at
		FROM tickets WHERE id=$1
	`, sourceID).Scan(&source.ID, &sourceColumn, &source.Content, &source.AuthorID, &source.AuthorName, &source.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read merge source: %w", err)
	}

	var targetContent string
	err = tx.QueryRowContext(ctx, `SELECT content FROM tickets WHERE id=$1`, targetID).Scan(&targetContent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read merge target: %w", err)
	}

	voteRows, err := tx.QueryContext(ctx, `SELECT participant_id FROM votes WHERE ticket_id=$1`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("read merge source votes: %w", err)
	}
	source.Votes = make([]string, 0)
	for voteRows.Next() {
		var participantID string
		if err := voteRows.Scan(&participantID); err != nil {
			voteRows.Close()
			return nil, fmt.Errorf("scan merge source vote: %w", err)
		}
		source.Votes = append(source.Votes, participantID)
	}
	if err := voteRows.Err(); err != nil {
		voteRows.Close()
		return nil, fmt.Errorf("iterate merge source votes: %w", err)
	}
	voteRows.Close()

	_, err = tx.ExecContext(ctx, `UPDATE tickets SET content = content || E'\n' || $1 WHERE id=$2`, source.Content, targetID)
	if err != nil {
		return nil, fmt.Errorf("fold merge content: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO votes (ticket_id, participant_id)
		SELECT $1, participant_id FROM votes WHERE ticket_id=$2
		ON CONFLICT (ticket_id, participant_id) DO NOTHING
	`, targetID, sourceID)
	if err != nil {
		return nil, fmt.Errorf("fold merge votes: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tickets WHERE id=$1`, sourceID); err != nil {
		return nil, fmt.Errorf("delete merge source: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit merge: %w", err)
	}

	return &MergeSnapshot{
		SourceTicket:  source,
		SourceColumn:  sourceColumn,
		TargetID:      targetID,
		TargetContent: targetContent,
	}, nil
}

// UndoMerge restores the snapshot's source ticket exactly as it was and reverts
// the target's content to its pre-merge value.
func (s *PostgresStore) UndoMerge(ctx context.Context, snapshot MergeSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin undo merge: %w", err)
	}
	defer tx.Rollback()

	source := snapshot.SourceTicket
	_, err = tx.ExecContext(ctx, `
		INSERT INTO tickets (id, column_id, content, author_id, author_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, source.ID, snapshot.SourceColumn, source.Content, source.AuthorID, source.AuthorName, source.CreatedAt)
	if err != nil {
		return fmt.Errorf("restore merge source: %w", err)
	}

	for _, participantID := range source.Votes {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO votes (ticket_id, participant_id) VALUES ($1, $2)
			ON CONFLICT (ticket_id, participant_id) DO NOTHING
		`, source.ID, participantID)
		if err != nil {
			return fmt.Errorf("restore merge source vote: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `UPDATE tickets SET content=$1 WHERE id=$2`, snapshot.TargetContent, snapshot.TargetID)
	if err != nil {
		return fmt.Errorf("restore merge target content: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit undo merge: %w", err)
	}
	return nil
}

// SplitTicket carves the segment at segmentIndex (newline-separated, blank
// lines skipped) out of a ticket into a new ticket in the same column.
// Returns false when the ticket is missing, has fewer than two segments, or
// the index is out of range.
func (s *PostgresStore) SplitTicket(ctx context.Context, ticketID string, segmentIndex int, newID, authorID, authorName string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin split: %w", err)
	}
	defer tx.Rollback()

	var columnID, content string
	err = tx.QueryRowContext(ctx, `SELECT column_id, content FROM tickets WHERE id=$1`, ticketID).Scan(&columnID, &content)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read split ticket: %w", err)
	}

	segments := splitSegments(content)
	if len(segments) < 2 || segmentIndex < 0 || segmentIndex >= len(segments) {
		return false, nil
	}

	carved := segments[segmentIndex]
	remaining := append(segments[:segmentIndex:segmentIndex], segments[segmentIndex+1:]...)

	_, err = tx.ExecContext(ctx, `UPDATE tickets SET content=$1 WHERE id=$2`, joinSegments(remaining), ticketID)
	if err != nil {
		return false, fmt.Errorf("trim split ticket: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tickets (id, column_id, content, author_id, author_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, newID, columnID, carved, authorID, authorName, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("insert split ticket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit split: %w", err)
	}
	return true, nil
}

// --- Templates ---

func (s *PostgresStore) ListTemplates(ctx context.Context) ([]Template, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, columns, position FROM templates ORDER BY position, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	items := make([]Template, 0)
	for rows.Next() {
		var item Template
		var columnsJSON []byte
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &columnsJSON, &item.Position); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		if err := json.Unmarshal(columnsJSON, &item.Columns); err != nil {
			return nil, fmt.Errorf("decode template columns: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) CreateTemplate(ctx context.Context, template Template) error {
	columnsJSON, err := json.Marshal(template.Columns)
	if err != nil {
		return fmt.Errorf("encode template columns: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO templates (id, name, description, columns, position)
		VALUES ($1, $2, $3, $4, $5)
	`, template.ID, template.Name, template.Description, columnsJSON, template.Position)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateTemplate(ctx context.Context, template Template) (bool, error) {
	columnsJSON, err := json.Marshal(template.Columns)
	if err != nil {
		return false, fmt.Errorf("encode template columns: %w", err)
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE templates SET name=$1, description=$2, columns=$3, position=$4 WHERE id=$5
	`, template.Name, template.Description, columnsJSON, template.Position, template.ID)
	if err != nil {
		return false, fmt.Errorf("update template: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update template result: %w", err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) DeleteTemplate(ctx context.Context, templateID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id=$1`, templateID)
	if err != nil {
		return false, fmt.Errorf("delete template: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete template result: %w", err)
	}
	return affected > 0, nil
}

// --- Admin ---

func (s *PostgresStore) GlobalStats(ctx context.Context) (AdminStats, error) {
	var stats AdminStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM boards),
			(SELECT COUNT(*) FROM tickets),
			(SELECT COUNT(*) FROM votes)
	`).Scan(&stats.BoardCount, &stats.TicketCount, &stats.VoteCount)
	if err != nil {
		return AdminStats{}, fmt.Errorf("global stats: %w", err)
	}
	return stats, nil
}

func (s *PostgresStore) ListBoards(ctx context.Context) ([]AdminBoardSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			b.id,
			b.title,
			b.is_blurred,
			b.created_at,
			(SELECT COUNT(*) FROM columns c WHERE c.board_id = b.id) AS column_count,
			(SELECT COUNT(*) FROM tickets t JOIN columns c ON t.column_id = c.id WHERE c.board_id = b.id) AS ticket_count,
			(SELECT COUNT(*) FROM votes v JOIN tickets t ON v.ticket_id = t.id JOIN columns c ON t.column_id = c.id WHERE c.board_id = b.id) AS vote_count
		FROM boards b
		ORDER BY b.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("admin list boards: %w", err)
	}
	defer rows.Close()

	items := make([]AdminBoardSummary, 0)
	for rows.Next() {
		var item AdminBoardSummary
		if err := rows.Scan(&item.ID, &item.Title, &item.IsBlurred, &item.CreatedAt, &item.ColumnCount, &item.TicketCount, &item.VoteCount); err != nil {
			return nil, fmt.Errorf("scan admin board: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin boards: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) DeleteBoard(ctx context.Context, boardID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id=$1`, boardID)
	if err != nil {
		return false, fmt.Errorf("delete board: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete board result: %w", err)
	}
	return affected > 0, nil
}
