package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/logger"
	"github.com/taptune/taptune-backend/pkg/pagination"
)

// Recorder is the write-only surface other services depend on. Recording is
// best effort: callers inside a transaction use RecordTx so the entry commits
// with the unit, callers outside use Record and tolerate failure.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
	RecordTx(ctx context.Context, tx *gorm.DB, entry Entry) error
}

// Service exposes the read/ack operations plus recording.
type Service interface {
	Recorder
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*List, error)
	ListStaffFeed(ctx context.Context, params pagination.Params) (*List, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

// Entry is one activity record to append.
type Entry struct {
	UserID  *uuid.UUID
	Type    enums.NotificationType
	Title   string
	Message string
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds the notifications service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Record appends outside any transaction. Failure is logged, never returned.
func (s *service) Record(ctx context.Context, entry Entry) {
	if _, err := s.repo.Create(ctx, entry.toModel()); err != nil {
		s.logg.Error(ctx, "recording notification failed", err)
	}
}

// RecordTx appends inside the caller's transaction.
func (s *service) RecordTx(ctx context.Context, tx *gorm.DB, entry Entry) error {
	if _, err := s.repo.WithTx(tx).Create(ctx, entry.toModel()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record notification")
	}
	return nil
}

func (e Entry) toModel() *models.Notification {
	return &models.Notification{
		UserID:  e.UserID,
		Type:    e.Type,
		Title:   e.Title,
		Message: e.Message,
	}
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*List, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListForUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	return list, nil
}

func (s *service) ListStaffFeed(ctx context.Context, params pagination.Params) (*List, error) {
	list, err := s.repo.ListStaffFeed(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staff feed")
	}
	return list, nil
}

func (s *service) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if id == uuid.Nil || userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}
	affected, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}
