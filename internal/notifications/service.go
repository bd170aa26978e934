package notifications

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/agroconnect-tz/agroconnect-backend/pkg/errors"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/logger"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Notification is a transient user-facing message produced by cart, checkout
// and order lifecycle changes.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	BuyerID   uuid.UUID `json:"buyerId"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notifier is the boundary the rest of the system emits messages through.
// Transports (toast, push, SMS) are external collaborator concerns.
type Notifier interface {
	Notify(ctx context.Context, buyerID uuid.UUID, message string)
}

// Service defines notification emit/list/read operations.
type Service interface {
	Notifier
	List(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*ListResult, error)
	MarkRead(ctx context.Context, buyerID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, buyerID uuid.UUID) (int, error)
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []Notification `json:"items"`
	Cursor string         `json:"cursor"`
}

type service struct {
	repo Repository
	logg *logger.Logger
	now  func() time.Time
}

// NewService wires notification dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

func (s *service) Notify(ctx context.Context, buyerID uuid.UUID, message string) {
	if buyerID == uuid.Nil || message == "" {
		return
	}
	notification := Notification{
		ID:        uuid.New(),
		BuyerID:   buyerID,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}
	s.repo.Append(notification)
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"buyer_id": buyerID.String(),
			"message":  message,
		})
		s.logg.Info(logCtx, "notification.emitted")
	}
}

func (s *service) List(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	items, hasMore := s.repo.ListByBuyer(buyerID, cursor, limit)
	result := &ListResult{Items: items}
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		result.Cursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

func (s *service) MarkRead(ctx context.Context, buyerID, notificationID uuid.UUID) error {
	if buyerID == uuid.Nil || notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "buyer id and notification id required")
	}
	if !s.repo.MarkRead(buyerID, notificationID) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, buyerID uuid.UUID) (int, error) {
	if buyerID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	return s.repo.MarkAllRead(buyerID), nil
}
