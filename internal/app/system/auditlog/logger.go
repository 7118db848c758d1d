// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Modes accepted by Config.Mode.
const (
	ModeLog = "log" // structured log via zap
	ModeOff = "off" // disabled
)

// Config holds audit logging configuration.
type Config struct {
	Mode string
}

// Logger writes audit events for every mutation of the collections.
type Logger struct {
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{zapLog: zapLog, config: config}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.EntityID != "" {
		fields = append(fields, zap.String("entity_id", event.EntityID))
	}
	if event.TaskID != "" {
		fields = append(fields, zap.String("task_id", event.TaskID))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	keys := make([]string, 0, len(event.Details))
	for k := range event.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.String("detail_"+k, event.Details[k]))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event unless auditing is off.
// A nil Logger is a no-op so handlers can run without one in tests.
func (l *Logger) Log(ctx context.Context, event Event) {
	if l == nil || l.config.Mode == ModeOff {
		return
	}
	l.logToZap(event)
}

// Record logs the outcome of a mutation request. A non-nil err marks the
// event failed and becomes its failure reason.
func (l *Logger) Record(r *http.Request, category, eventType, entityID string, err error, details map[string]string) {
	if l == nil {
		return
	}
	ev := Event{
		Category:  category,
		EventType: eventType,
		EntityID:  entityID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   err == nil,
		Details:   details,
	}
	if err != nil {
		ev.FailureReason = err.Error()
	}
	l.Log(r.Context(), ev)
}

// --- Users ---

// UserCreated logs a create_user call.
func (l *Logger) UserCreated(r *http.Request, userID, name string, err error) {
	l.Record(r, CategoryUsers, EventUserCreated, userID, err, map[string]string{"name": name})
}

// UserUpdated logs an update_user call.
func (l *Logger) UserUpdated(r *http.Request, userID string, fields []string, err error) {
	l.Record(r, CategoryUsers, EventUserUpdated, userID, err, map[string]string{"fields_changed": strings.Join(fields, ",")})
}

// --- Teams ---

// TeamCreated logs a create_team call.
func (l *Logger) TeamCreated(r *http.Request, teamID, name string, err error) {
	l.Record(r, CategoryTeams, EventTeamCreated, teamID, err, map[string]string{"name": name})
}

// TeamUpdated logs an update_team call.
func (l *Logger) TeamUpdated(r *http.Request, teamID string, fields []string, err error) {
	l.Record(r, CategoryTeams, EventTeamUpdated, teamID, err, map[string]string{"fields_changed": strings.Join(fields, ",")})
}

// TeamMembersAdded logs an add_users_to_team call.
func (l *Logger) TeamMembersAdded(r *http.Request, teamID string, userIDs []string, err error) {
	l.Record(r, CategoryTeams, EventTeamMembersAdded, teamID, err, memberDetails(userIDs))
}

// TeamMembersRemoved logs a remove_users_from_team call.
func (l *Logger) TeamMembersRemoved(r *http.Request, teamID string, userIDs []string, err error) {
	l.Record(r, CategoryTeams, EventTeamMembersRemoved, teamID, err, memberDetails(userIDs))
}

// --- Boards ---

// BoardCreated logs a create_board call.
func (l *Logger) BoardCreated(r *http.Request, boardID, name string, err error) {
	l.Record(r, CategoryBoards, EventBoardCreated, boardID, err, map[string]string{"name": name})
}

// BoardUpdated logs an update_board call.
func (l *Logger) BoardUpdated(r *http.Request, boardID string, fields []string, err error) {
	l.Record(r, CategoryBoards, EventBoardUpdated, boardID, err, map[string]string{"fields_changed": strings.Join(fields, ",")})
}

// BoardDeleted logs a delete_board call.
func (l *Logger) BoardDeleted(r *http.Request, boardID string, err error) {
	l.Record(r, CategoryBoards, EventBoardDeleted, boardID, err, nil)
}

// TaskAdded logs an add_task call.
func (l *Logger) TaskAdded(r *http.Request, boardID, taskID, title string, err error) {
	l.taskEvent(r, EventTaskAdded, boardID, taskID, err, map[string]string{"title": title})
}

// TaskUpdated logs an update_task call.
func (l *Logger) TaskUpdated(r *http.Request, boardID, taskID string, fields []string, err error) {
	l.taskEvent(r, EventTaskUpdated, boardID, taskID, err, map[string]string{"fields_changed": strings.Join(fields, ",")})
}

// TaskDeleted logs a delete_task call.
func (l *Logger) TaskDeleted(r *http.Request, boardID, taskID string, err error) {
	l.taskEvent(r, EventTaskDeleted, boardID, taskID, err, nil)
}

func (l *Logger) taskEvent(r *http.Request, eventType, boardID, taskID string, err error, details map[string]string) {
	if l == nil {
		return
	}
	ev := Event{
		Category:  CategoryBoards,
		EventType: eventType,
		EntityID:  boardID,
		TaskID:    taskID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   err == nil,
		Details:   details,
	}
	if err != nil {
		ev.FailureReason = err.Error()
	}
	l.Log(r.Context(), ev)
}

func memberDetails(userIDs []string) map[string]string {
	return map[string]string{
		"user_ids": strings.Join(userIDs, ","),
		"count":    strconv.Itoa(len(userIDs)),
	}
}
