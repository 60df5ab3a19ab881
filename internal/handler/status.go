package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/garagex/garagex/internal/model"
	q "github.com/garagex/garagex/internal/queue"
	"github.com/garagex/garagex/internal/repository"
)

// StatusHandler implements status transitions against the append-only
// ledger.  A transition locks the job row, reads the current status as
// from_status, moves the denormalized status column and appends one
// ledger entry, all in a single transaction.  The layer deliberately
// enforces no transition graph: any status value may follow any other.
type StatusHandler struct {
	Jobs    *repository.JobRepo
	History *repository.StatusHistoryRepo
	Events  EventSink
}

// NewStatusHandler constructs a StatusHandler and panics on nil
// repositories.
func NewStatusHandler(jobs *repository.JobRepo, history *repository.StatusHistoryRepo, events EventSink) *StatusHandler {
	if jobs == nil || history == nil {
		panic("nil repository passed to NewStatusHandler")
	}
	return &StatusHandler{Jobs: jobs, History: history, Events: events}
}

type statusUpdateReq struct {
	ToStatus string  `json:"to_status"`
	Note     *string `json:"note"`
	Remarks  *string `json:"remarks"`
}

type historyEntryResp struct {
	ID         string    `json:"id"`
	FromStatus *string   `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Note       *string   `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

func historyToResp(entries []model.JobStatusHistory) []historyEntryResp {
	out := make([]historyEntryResp, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntryResp{
			ID:         e.ID,
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			Note:       e.Note,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}

type statusUpdateResp struct {
	StatusHistory []historyEntryResp `json:"status_history"`
}

// UpdateStatus handles POST /api/garage/jobs/:job_id/status.  The
// response carries the full ordered history including the entry just
// appended, read inside the same transaction.
func (h *StatusHandler) UpdateStatus(c echo.Context) error {
	jobID, err := pathUUID(c, "job_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}
	var req statusUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ToStatus == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to_status is required"})
	}

	ctx := c.Request().Context()
	tx, err := h.Jobs.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Row lock first: concurrent transitions on this job queue up here,
	// so each one reads a from_status that includes every earlier commit
	// and the ledger chain can never record a lost update.
	locked, err := h.Jobs.LockForUpdateTx(ctx, tx, jobID)
	if err != nil {
		if err == repository.ErrJobNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	fromStatus := locked.Status

	if err := h.Jobs.UpdateStatusTx(ctx, tx, jobID, req.ToStatus, req.Remarks); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.History.AppendTx(ctx, tx, jobID, &fromStatus, req.ToStatus, req.Note); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	history, err := h.History.ListByJobTx(ctx, tx, jobID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	if h.Events != nil {
		ev := q.JobStatusChangedEvent{
			JobID:         jobID,
			JobIdentifier: locked.JobIdentifier,
			GarageID:      locked.GarageID,
			FromStatus:    &fromStatus,
			ToStatus:      req.ToStatus,
			Note:          req.Note,
			OccurredAt:    time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.Events.PublishStatusChanged(ctx, ev); err != nil {
			log.Printf("status-changed event publish failed: %v", err)
		}
	}

	return c.JSON(http.StatusOK, statusUpdateResp{StatusHistory: historyToResp(history)})
}
