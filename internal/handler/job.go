package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/garagex/garagex/internal/model"
	q "github.com/garagex/garagex/internal/queue"
	"github.com/garagex/garagex/internal/repository"
	"github.com/garagex/garagex/internal/utils"
)

// JobHandler implements the job lifecycle endpoints: creation, listing
// and the details view.  Creation is the one multi-table workflow in the
// system and runs as a single transaction owned here: garage resolution,
// customer and vehicle upserts, the job insert and the first ledger entry
// either all commit or all roll back.
type JobHandler struct {
	Jobs        *repository.JobRepo
	Customers   *repository.CustomerRepo
	Vehicles    *repository.VehicleRepo
	GarageUsers *repository.GarageUserRepo
	Parts       *repository.PartRepo
	History     *repository.StatusHistoryRepo
	Events      EventSink
}

// NewJobHandler constructs a JobHandler and panics if a required
// repository is missing.
func NewJobHandler(jobs *repository.JobRepo, customers *repository.CustomerRepo, vehicles *repository.VehicleRepo, garageUsers *repository.GarageUserRepo, parts *repository.PartRepo, history *repository.StatusHistoryRepo, events EventSink) *JobHandler {
	if jobs == nil || customers == nil || vehicles == nil || garageUsers == nil || parts == nil || history == nil {
		panic("nil repository passed to NewJobHandler")
	}
	return &JobHandler{
		Jobs:        jobs,
		Customers:   customers,
		Vehicles:    vehicles,
		GarageUsers: garageUsers,
		Parts:       parts,
		History:     history,
		Events:      events,
	}
}

// creationNote is the fixed note on the first ledger entry of every job.
const creationNote = "Job created"

type jobCreateReq struct {
	CustomerName          *string `json:"customer_name"`
	Phone                 string  `json:"phone"`
	VehicleNumber         string  `json:"vehicle_number"`
	VehicleMake           *string `json:"vehicle_make"`
	VehicleModel          *string `json:"vehicle_model"`
	Complaint             *string `json:"complaint"`
	EstimatedDeliveryDate *string `json:"estimated_delivery_date"`
	EstimatedTime         *string `json:"estimated_time"`
}

type jobCreatedResp struct {
	JobID                 string  `json:"job_id"`
	JobIdentifier         string  `json:"job_identifier"`
	VehicleID             string  `json:"vehicle_id"`
	CustomerID            string  `json:"customer_id"`
	VehicleNumber         string  `json:"vehicle_number"`
	OwnerName             *string `json:"owner_name"`
	EstimatedDeliveryDate *string `json:"estimated_delivery_date"`
	EstimatedTime         *string `json:"estimated_time"`
	Status                string  `json:"status"`
}

// CreateJob handles POST /api/garage/users/:user_id/jobs.  The response
// echoes the denormalized display fields from the rows written in this
// very transaction; there is no second round trip after commit.
func (h *JobHandler) CreateJob(c echo.Context) error {
	userID, err := pathUUID(c, "user_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req jobCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Phone == "" || req.VehicleNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone and vehicle_number are required"})
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

	// The caller must resolve to an active garage before anything is
	// written.
	garageID, err := h.GarageUsers.GarageIDTx(ctx, tx, userID)
	if err != nil {
		if err == repository.ErrGarageUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "garage user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	customer, err := h.Customers.UpsertTx(ctx, tx, req.Phone, req.CustomerName)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	vehicle, err := h.Vehicles.UpsertTx(ctx, tx, customer.ID, req.VehicleNumber, req.VehicleMake, req.VehicleModel)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	jobIdentifier, err := utils.NewJobIdentifier()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "identifier generation failed"})
	}
	job := model.Job{
		ID:                    newUUID(),
		JobIdentifier:         jobIdentifier,
		GarageID:              garageID,
		VehicleID:             vehicle.ID,
		CustomerPhone:         req.Phone,
		CustomerName:          customer.Name,
		Complaint:             req.Complaint,
		EstimatedDeliveryDate: req.EstimatedDeliveryDate,
		EstimatedTime:         req.EstimatedTime,
		Status:                model.StatusCreated,
	}
	if err := h.Jobs.CreateTx(ctx, tx, job); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	note := creationNote
	if err := h.History.AppendTx(ctx, tx, job.ID, nil, model.StatusCreated, &note); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	if h.Events != nil {
		ev := q.JobStatusChangedEvent{
			JobID:         job.ID,
			JobIdentifier: job.JobIdentifier,
			GarageID:      garageID,
			FromStatus:    nil,
			ToStatus:      model.StatusCreated,
			OccurredAt:    time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.Events.PublishStatusChanged(ctx, ev); err != nil {
			log.Printf("job-created event publish failed: %v", err)
		}
	}

	return c.JSON(http.StatusCreated, jobCreatedResp{
		JobID:                 job.ID,
		JobIdentifier:         job.JobIdentifier,
		VehicleID:             vehicle.ID,
		CustomerID:            customer.ID,
		VehicleNumber:         vehicle.VehicleNumber,
		OwnerName:             customer.Name,
		EstimatedDeliveryDate: req.EstimatedDeliveryDate,
		EstimatedTime:         req.EstimatedTime,
		Status:                model.StatusCreated,
	})
}

// ListJobs handles GET /api/garage/users/:user_id/jobs.
func (h *JobHandler) ListJobs(c echo.Context) error {
	userID, err := pathUUID(c, "user_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	items, err := h.Jobs.ListForGarageUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, items)
}

type jobDetailsResp struct {
	repository.JobHeader
	Parts         []partResp         `json:"parts"`
	StatusHistory []historyEntryResp `json:"status_history"`
}

// GetJob handles GET /api/garage/jobs/:job_id, assembling the header,
// parts and the full status ledger for the details view.
func (h *JobHandler) GetJob(c echo.Context) error {
	jobID, err := pathUUID(c, "job_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}
	ctx := c.Request().Context()

	header, err := h.Jobs.GetHeader(ctx, jobID)
	if err != nil {
		if err == repository.ErrJobNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	parts, err := h.Parts.ListByJob(ctx, jobID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	history, err := h.History.ListByJob(ctx, jobID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, jobDetailsResp{
		JobHeader:     header,
		Parts:         partsToResp(parts),
		StatusHistory: historyToResp(history),
	})
}
