package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/garagex/garagex/internal/model"
	"github.com/garagex/garagex/internal/repository"
)

// PartHandler implements CRUD over a job's billable parts.  Parts carry
// no ordering invariant, so no row lock is taken; the only requirements
// are the all-or-nothing bulk insert and the (part id, job id) pair check
// on every mutation.
type PartHandler struct {
	Parts *repository.PartRepo
	Jobs  *repository.JobRepo
}

// NewPartHandler constructs a PartHandler and panics on nil repositories.
func NewPartHandler(parts *repository.PartRepo, jobs *repository.JobRepo) *PartHandler {
	if parts == nil || jobs == nil {
		panic("nil repository passed to NewPartHandler")
	}
	return &PartHandler{Parts: parts, Jobs: jobs}
}

type partCreateItem struct {
	Name       string   `json:"name"`
	Quantity   *int32   `json:"quantity"`
	UnitPrice  float64  `json:"unit_price"`
	TaxPercent *float64 `json:"tax_percent"`
}

type partsAddReq struct {
	Parts []partCreateItem `json:"parts"`
}

type partUpdateReq struct {
	Name       *string  `json:"name"`
	Quantity   *int32   `json:"quantity"`
	UnitPrice  *float64 `json:"unit_price"`
	TaxPercent *float64 `json:"tax_percent"`
}

type partResp struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Quantity   int32     `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TaxPercent *float64  `json:"tax_percent"`
	CreatedAt  time.Time `json:"created_at"`
}

func partsToResp(parts []model.JobPart) []partResp {
	out := make([]partResp, 0, len(parts))
	for _, p := range parts {
		out = append(out, partResp{
			ID:         p.ID,
			Name:       p.Name,
			Quantity:   p.Quantity,
			UnitPrice:  p.UnitPrice,
			TaxPercent: p.TaxPercent,
			CreatedAt:  p.CreatedAt,
		})
	}
	return out
}

// AddParts handles POST /api/garage/jobs/:job_id/parts.  All rows insert
// in one transaction and the response is the job's full part list read
// inside that transaction, ordered by creation time.
func (h *PartHandler) AddParts(c echo.Context) error {
	jobID, err := pathUUID(c, "job_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}
	var req partsAddReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Parts) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "parts is required"})
	}
	inputs := make([]repository.PartInput, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.Name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "part name is required"})
		}
		inputs = append(inputs, repository.PartInput{
			Name:       p.Name,
			Quantity:   p.Quantity,
			UnitPrice:  p.UnitPrice,
			TaxPercent: p.TaxPercent,
		})
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

	if err := h.Parts.AddMultipleTx(ctx, tx, jobID, inputs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	parts, err := h.Parts.ListByJobTx(ctx, tx, jobID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusOK, partsToResp(parts))
}

// UpdatePart handles POST /api/garage/jobs/:job_id/parts/:part_id.  Only
// supplied fields change; a part addressed through the wrong job is a
// 404, never a mutation.
func (h *PartHandler) UpdatePart(c echo.Context) error {
	jobID, err := pathUUID(c, "job_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}
	partID, err := pathUUID(c, "part_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid part id"})
	}
	var req partUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	part, err := h.Parts.Update(c.Request().Context(), jobID, partID, repository.PartPatch{
		Name:       req.Name,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		TaxPercent: req.TaxPercent,
	})
	if err != nil {
		if err == repository.ErrPartNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "part not found for this job"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, partsToResp([]model.JobPart{part})[0])
}

// RemovePart handles DELETE /api/garage/jobs/:job_id/parts/:part_id and
// returns the remaining parts for the job.
func (h *PartHandler) RemovePart(c echo.Context) error {
	jobID, err := pathUUID(c, "job_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}
	partID, err := pathUUID(c, "part_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid part id"})
	}

	ctx := c.Request().Context()
	if err := h.Parts.Delete(ctx, jobID, partID); err != nil {
		if err == repository.ErrPartNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "part not found for this job"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	parts, err := h.Parts.ListByJob(ctx, jobID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, partsToResp(parts))
}
