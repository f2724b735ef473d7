package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nickkhg/rewind/internal/live"
	"github.com/nickkhg/rewind/internal/protocol"
	"github.com/nickkhg/rewind/internal/search"
	"github.com/nickkhg/rewind/internal/store"
	"github.com/nickkhg/rewind/internal/util"
)

const facilitatorCookieMaxAge = 365 * 24 * 3600

type HTTPServer struct {
	service    *Service
	live       *live.Handler
	corsOrigin string
}

func NewHTTPServer(service *Service, liveHandler *live.Handler, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, live: liveHandler, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	parts := splitPath(r.URL.Path)

	// Websocket sessions, e.g. /ws/boards/b_1a2b3c
	if len(parts) == 3 && parts[0] == "ws" && parts[1] == "boards" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		s.live.ServeBoard(w, r, parts[2])
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"database": map[string]any{"status": "ok"},
		}

		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["database"] = map[string]any{
				"status": "error",
				"error":  err.Error(),
			}
		}

		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/boards" {
		s.handleCreateBoard(w, r)
		return
	}

	if r.Method == http.MethodGet && len(parts) == 3 && parts[0] == "api" && parts[1] == "boards" {
		s.handleGetBoard(w, r, parts[2])
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/templates" {
		s.handleListTemplates(w, r)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/my-boards" {
		s.handleMyBoards(w, r)
		return
	}

	if len(parts) >= 2 && parts[0] == "api" && parts[1] == "admin" {
		s.handleAdmin(w, r, parts[2:])
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var body CreateBoardRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	facilitatorID := s.facilitatorID(r)
	if facilitatorID == "" {
		facilitatorID = util.NewID("f")
		http.SetCookie(w, &http.Cookie{
			Name:     live.FacilitatorCookie,
			Value:    facilitatorID,
			Path:     "/",
			MaxAge:   facilitatorCookieMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	board, err := s.service.CreateBoard(r.Context(), body, facilitatorID)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"board":             protocol.NewBoardView(board, 0),
		"facilitator_token": board.FacilitatorToken,
	})
}

func (s *HTTPServer) handleGetBoard(w http.ResponseWriter, r *http.Request, boardID string) {
	board, err := s.service.GetBoard(r.Context(), boardID)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"board": protocol.NewBoardView(board, s.service.ParticipantCount(boardID)),
	})
}

func (s *HTTPServer) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.service.Templates(r.Context())
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": templatesJSON(templates)})
}

func (s *HTTPServer) handleMyBoards(w http.ResponseWriter, r *http.Request) {
	facilitatorID := s.facilitatorID(r)
	if facilitatorID == "" {
		writeJSON(w, http.StatusOK, map[string]any{"boards": []any{}})
		return
	}

	boards, err := s.service.MyBoards(r.Context(), facilitatorID)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}

	payload := make([]map[string]any, 0, len(boards))
	for _, b := range boards {
		payload = append(payload, map[string]any{
			"id":           b.ID,
			"title":        b.Title,
			"created_at":   b.CreatedAt,
			"is_anonymous": b.IsAnonymous,
			"column_count": b.ColumnCount,
			"ticket_count": b.TicketCount,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"boards": payload})
}

func (s *HTTPServer) handleAdmin(w http.ResponseWriter, r *http.Request, parts []string) {
	if !s.service.VerifyAdmin(r.Context(), bearerToken(r)) {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	switch {
	case r.Method == http.MethodPost && len(parts) == 1 && parts[0] == "verify":
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	case r.Method == http.MethodGet && len(parts) == 1 && parts[0] == "stats":
		stats, err := s.service.AdminStats(r.Context())
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, stats)

	case r.Method == http.MethodGet && len(parts) == 1 && parts[0] == "boards":
		s.handleAdminBoards(w, r)

	case r.Method == http.MethodGet && len(parts) == 2 && parts[0] == "boards":
		s.handleAdminBoardDetail(w, r, parts[1])

	case r.Method == http.MethodDelete && len(parts) == 2 && parts[0] == "boards":
		s.handleAdminDeleteBoard(w, r, parts[1])

	case r.Method == http.MethodGet && len(parts) == 1 && parts[0] == "templates":
		s.handleListTemplates(w, r)

	case r.Method == http.MethodPost && len(parts) == 1 && parts[0] == "templates":
		var body TemplateRequest
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		template, err := s.service.CreateTemplate(r.Context(), body)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"template": templateJSON(template)})

	case r.Method == http.MethodPut && len(parts) == 2 && parts[0] == "templates":
		var body TemplateRequest
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		template, err := s.service.UpdateTemplate(r.Context(), parts[1], body)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"template": templateJSON(template)})

	case r.Method == http.MethodDelete && len(parts) == 2 && parts[0] == "templates":
		if err := s.service.DeleteTemplate(r.Context(), parts[1]); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	case r.Method == http.MethodGet && len(parts) == 1 && parts[0] == "search":
		s.handleAdminSearch(w, r)

	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
}

func (s *HTTPServer) handleAdminBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.service.AdminBoards(r.Context())
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}

	payload := make([]map[string]any, 0, len(boards))
	for _, b := range boards {
		payload = append(payload, map[string]any{
			"id":                b.ID,
			"title":             b.Title,
			"is_blurred":        b.IsBlurred,
			"created_at":        b.CreatedAt,
			"column_count":      b.ColumnCount,
			"ticket_count":      b.TicketCount,
			"vote_count":        b.VoteCount,
			"participant_count": s.service.ParticipantCount(b.ID),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"boards": payload})
}

func (s *HTTPServer) handleAdminBoardDetail(w http.ResponseWriter, r *http.Request, boardID string) {
	board, err := s.service.AdminBoardDetail(r.Context(), boardID)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"board":             protocol.NewBoardView(board, s.service.ParticipantCount(boardID)),
		"facilitator_token": board.FacilitatorToken,
	})
}

func (s *HTTPServer) handleAdminDeleteBoard(w http.ResponseWriter, r *http.Request, boardID string) {
	deleted, err := s.service.AdminDeleteBoard(r.Context(), boardID)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Board not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *HTTPServer) handleAdminSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "q is required", nil)
		return
	}

	query := search.Query{Text: q}
	switch filterType := strings.TrimSpace(r.URL.Query().Get("type")); filterType {
	case "":
	case string(search.ResultBoard), string(search.ResultTicket):
		query.FilterType = search.ResultType(filterType)
	default:
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "type must be board or ticket", nil)
		return
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "limit must be an integer", nil)
			return
		}
		query.Limit = parsed
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("offset")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "offset must be an integer", nil)
			return
		}
		query.Offset = parsed
	}

	resp, err := s.service.AdminSearch(query)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": resp.Results,
		"total":   resp.Total,
		"query":   resp.Query,
		"backend": s.service.SearchBackend(),
	})
}

func (s *HTTPServer) facilitatorID(r *http.Request) string {
	cookie, err := r.Cookie(live.FacilitatorCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func templatesJSON(templates []store.Template) []map[string]any {
	payload := make([]map[string]any, 0, len(templates))
	for _, t := range templates {
		payload = append(payload, templateJSON(t))
	}
	return payload
}

func templateJSON(t store.Template) map[string]any {
	return map[string]any{
		"id":          t.ID,
		"name":        t.Name,
		"description": t.Description,
		"columns":     t.Columns,
		"position":    t.Position,
	}
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Websocket upgrades need the raw ResponseWriter (hijacking) and set
		// their own headers.
		if strings.HasPrefix(r.URL.Path, "/ws/") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, sql.ErrNoRows) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
