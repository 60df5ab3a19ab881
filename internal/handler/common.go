package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	q "github.com/garagex/garagex/internal/queue"
)

// EventSink receives job lifecycle events after their transaction has
// committed.  Publishing is best effort; handlers log and ignore errors.
// A nil sink is valid and drops events, which is what tests rely on.
type EventSink interface {
	PublishStatusChanged(ctx context.Context, event q.JobStatusChangedEvent) error
}

var errInvalidID = errors.New("invalid id")

// newUUID generates a fresh CHAR(36) identifier for rows created by
// handlers.
func newUUID() string { return uuid.NewString() }

// pathUUID parses a UUID-shaped path parameter.  Malformed identifiers
// are rejected here, before any store access, so they surface as client
// errors instead of database errors.
func pathUUID(c echo.Context, name string) (string, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", errInvalidID
	}
	return id.String(), nil
}
