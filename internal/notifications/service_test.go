package notifications

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/agroconnect-tz/agroconnect-backend/pkg/errors"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/pagination"
)

func newNotificationService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestNotifyAndListNewestFirst(t *testing.T) {
	t.Parallel()

	svc := newNotificationService(t)
	buyerID := uuid.New()

	base := time.Now().UTC()
	clock := base
	svc.(*service).now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	for i := 0; i < 3; i++ {
		svc.Notify(context.Background(), buyerID, fmt.Sprintf("message %d", i))
	}

	result, err := svc.List(context.Background(), buyerID, pagination.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(result.Items))
	}
	if result.Items[0].Message != "message 2" || result.Items[2].Message != "message 0" {
		t.Fatalf("not newest first: %v", result.Items)
	}
	if result.Cursor != "" {
		t.Fatalf("single page must not carry a cursor, got %q", result.Cursor)
	}
}

func TestNotifyIgnoresEmptyInput(t *testing.T) {
	t.Parallel()

	svc := newNotificationService(t)
	buyerID := uuid.New()

	svc.Notify(context.Background(), uuid.Nil, "dropped")
	svc.Notify(context.Background(), buyerID, "")

	result, err := svc.List(context.Background(), buyerID, pagination.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 0 {
		t.Fatalf("expected no notifications, got %d", len(result.Items))
	}
}

func TestListPaginates(t *testing.T) {
	t.Parallel()

	svc := newNotificationService(t)
	buyerID := uuid.New()

	for i := 0; i < 5; i++ {
		svc.Notify(context.Background(), buyerID, fmt.Sprintf("message %d", i))
	}

	page, err := svc.List(context.Background(), buyerID, pagination.Params{Limit: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 3 || page.Cursor == "" {
		t.Fatalf("expected 3 items with a cursor, got %d %q", len(page.Items), page.Cursor)
	}

	rest, err := svc.List(context.Background(), buyerID, pagination.Params{Limit: 3, Cursor: page.Cursor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rest.Items) != 2 || rest.Cursor != "" {
		t.Fatalf("expected final page of 2, got %d %q", len(rest.Items), rest.Cursor)
	}
}

func TestMarkRead(t *testing.T) {
	t.Parallel()

	svc := newNotificationService(t)
	buyerID := uuid.New()
	svc.Notify(context.Background(), buyerID, "hello")

	result, err := svc.List(context.Background(), buyerID, pagination.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	target := result.Items[0]
	if target.Read {
		t.Fatal("fresh notification must start unread")
	}

	if err := svc.MarkRead(context.Background(), buyerID, target.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err = svc.List(context.Background(), buyerID, pagination.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Items[0].Read {
		t.Fatal("notification should be read")
	}

	// Another buyer cannot mark it.
	err = svc.MarkRead(context.Background(), uuid.New(), target.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	t.Parallel()

	svc := newNotificationService(t)
	buyerID := uuid.New()
	for i := 0; i < 4; i++ {
		svc.Notify(context.Background(), buyerID, fmt.Sprintf("message %d", i))
	}

	count, err := svc.MarkAllRead(context.Background(), buyerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 updates, got %d", count)
	}

	// Second pass finds nothing left to update.
	count, err = svc.MarkAllRead(context.Background(), buyerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 updates, got %d", count)
	}
}
