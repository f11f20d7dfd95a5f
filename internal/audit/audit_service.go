package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuditLogResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	ActorType string          `json:"actor_type"`
	ActorID   string          `json:"actor_id"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type Service interface {
	// Record writes an audit row best effort: failures are logged and never
	// propagated, so the audited operation itself cannot fail on audit.
	Record(ctx context.Context, action, actorType, actorID string, details map[string]any)
	ListRecent(ctx context.Context, limit int) ([]AuditLogResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Record(ctx context.Context, action, actorType, actorID string, details map[string]any) {
	var payload []byte
	if details != nil {
		var err error
		payload, err = json.Marshal(details)
		if err != nil {
			s.logger.Warn("marshal audit details failed", zap.String("action", action), zap.Error(err))
		}
	}

	entry := &AuditLog{
		ID:        uuid.New(),
		Action:    action,
		ActorType: actorType,
		ActorID:   actorID,
		Details:   payload,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Warn("write audit log failed",
			zap.String("action", action),
			zap.String("actor_id", actorID),
			zap.Error(err),
		)
	}
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]AuditLogResponse, error) {
	rows, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		s.logger.Error("list audit logs failed", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeServiceUnavailable, "Audit store unavailable", http.StatusServiceUnavailable)
	}

	resp := make([]AuditLogResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, AuditLogResponse{
			ID:        row.ID.String(),
			Action:    row.Action,
			ActorType: row.ActorType,
			ActorID:   row.ActorID,
			Details:   json.RawMessage(row.Details),
			CreatedAt: row.CreatedAt,
		})
	}
	return resp, nil
}
