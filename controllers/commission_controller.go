package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rentshore/rentshore_backend/config"
	"github.com/rentshore/rentshore_backend/models"
	"github.com/rentshore/rentshore_backend/services"
)

// CommissionController exposes the admin dashboard's commission ledger:
// listing, the disbursement lifecycle, bulk actions, summary and exports.
// All transitions go through the commission service.
type CommissionController struct {
	db      *mongo.Client
	service *services.CommissionService
}

// NewCommissionController creates a new commission controller
func NewCommissionController(db *mongo.Client, service *services.CommissionService) *CommissionController {
	return &CommissionController{db: db, service: service}
}

func parseCommissionFilter(c echo.Context) models.CommissionFilter {
	filter := models.CommissionFilter{
		Status:  models.DisbursementStatus(c.QueryParam("status")),
		OwnerID: c.QueryParam("ownerId"),
		AgentID: c.QueryParam("agentId"),
	}
	if from := c.QueryParam("dateFrom"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.DateFrom = &t
		}
	}
	if to := c.QueryParam("dateTo"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			// inclusive end of day
			t = t.Add(24*time.Hour - time.Nanosecond)
			filter.DateTo = &t
		}
	}
	return filter
}

// commissionError maps service errors onto HTTP responses
func commissionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Commission record not found",
		})
	case errors.Is(err, services.ErrReasonRequired),
		errors.Is(err, services.ErrSplitMismatch),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Error updating commission record",
	})
}

// resolveDetails joins property titles, stay dates and owner/agent profiles
// onto the stored records. Lookups are batched per collection.
func (cc *CommissionController) resolveDetails(ctx context.Context, records []models.CommissionRecord) ([]models.CommissionRecordDetail, error) {
	propertyIDs := make([]primitive.ObjectID, 0, len(records))
	ownerIDs := make([]primitive.ObjectID, 0, len(records))
	agentIDs := make([]primitive.ObjectID, 0, len(records))
	bookingIDs := make([]primitive.ObjectID, 0, len(records))
	for _, record := range records {
		propertyIDs = append(propertyIDs, record.PropertyID)
		ownerIDs = append(ownerIDs, record.OwnerID)
		bookingIDs = append(bookingIDs, record.BookingID)
		if record.AgentID != nil {
			agentIDs = append(agentIDs, *record.AgentID)
		}
	}

	properties := map[primitive.ObjectID]models.Property{}
	cursor, err := config.GetCollection(cc.db, "properties").Find(ctx, bson.M{"_id": bson.M{"$in": propertyIDs}})
	if err != nil {
		return nil, err
	}
	var propertyDocs []models.Property
	if err := cursor.All(ctx, &propertyDocs); err != nil {
		return nil, err
	}
	for _, p := range propertyDocs {
		properties[p.ID] = p
	}

	owners := map[primitive.ObjectID]models.User{}
	cursor, err = config.GetCollection(cc.db, "users").Find(ctx, bson.M{"_id": bson.M{"$in": ownerIDs}})
	if err != nil {
		return nil, err
	}
	var ownerDocs []models.User
	if err := cursor.All(ctx, &ownerDocs); err != nil {
		return nil, err
	}
	for _, u := range ownerDocs {
		owners[u.ID] = u
	}

	agents := map[primitive.ObjectID]models.Agent{}
	if len(agentIDs) > 0 {
		cursor, err = config.GetCollection(cc.db, "agents").Find(ctx, bson.M{"_id": bson.M{"$in": agentIDs}})
		if err != nil {
			return nil, err
		}
		var agentDocs []models.Agent
		if err := cursor.All(ctx, &agentDocs); err != nil {
			return nil, err
		}
		for _, a := range agentDocs {
			agents[a.ID] = a
		}
	}

	bookings := map[primitive.ObjectID]models.Booking{}
	cursor, err = config.GetCollection(cc.db, "bookings").Find(ctx, bson.M{"_id": bson.M{"$in": bookingIDs}})
	if err != nil {
		return nil, err
	}
	var bookingDocs []models.Booking
	if err := cursor.All(ctx, &bookingDocs); err != nil {
		return nil, err
	}
	for _, b := range bookingDocs {
		bookings[b.ID] = b
	}

	details := make([]models.CommissionRecordDetail, 0, len(records))
	for _, record := range records {
		detail := models.CommissionRecordDetail{CommissionRecord: record}
		if p, ok := properties[record.PropertyID]; ok {
			detail.PropertyTitle = p.Title
		}
		if u, ok := owners[record.OwnerID]; ok {
			detail.OwnerName = u.FullName
			detail.OwnerEmail = u.Email
		}
		if record.AgentID != nil {
			if a, ok := agents[*record.AgentID]; ok {
				detail.AgentName = a.FullName
				detail.AgentEmail = a.Email
			}
		}
		if b, ok := bookings[record.BookingID]; ok {
			checkIn, checkOut := b.CheckIn, b.CheckOut
			detail.CheckIn = &checkIn
			detail.CheckOut = &checkOut
		}
		details = append(details, detail)
	}
	return details, nil
}

// ListCommissions returns the filtered ledger with display fields joined
func (cc *CommissionController) ListCommissions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	records, err := cc.service.List(ctx, parseCommissionFilter(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching commission records",
		})
	}

	details, err := cc.resolveDetails(ctx, records)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error resolving commission details",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: fmt.Sprintf("Found %d commission records", len(details)),
		Data:    details,
	})
}

// GetCommission returns one record with display fields joined
func (cc *CommissionController) GetCommission(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid commission ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	record, err := cc.service.Get(ctx, id)
	if err != nil {
		return commissionError(c, err)
	}

	details, err := cc.resolveDetails(ctx, []models.CommissionRecord{*record})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error resolving commission details",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission record retrieved",
		Data:    details[0],
	})
}

// GetSummary aggregates the stored split fields over the filtered set
func (cc *CommissionController) GetSummary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	summary, err := cc.service.Summarize(ctx, parseCommissionFilter(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error building summary",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Revenue split summary",
		Data:    summary,
	})
}

// ApproveCommission moves a pending record to approved
func (cc *CommissionController) ApproveCommission(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid commission ID",
		})
	}

	var req models.ApproveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	record, err := cc.service.Approve(context.Background(), id, req.Notes)
	if err != nil {
		return commissionError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission approved",
		Data:    record,
	})
}

// RejectCommission moves a pending record to rejected; a reason is mandatory
func (cc *CommissionController) RejectCommission(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid commission ID",
		})
	}

	var req models.RejectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	record, err := cc.service.Reject(context.Background(), id, req.Reason)
	if err != nil {
		return commissionError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission rejected",
		Data:    record,
	})
}

// StartProcessing moves an approved record into processing
func (cc *CommissionController) StartProcessing(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid commission ID",
		})
	}

	record, err := cc.service.StartProcessing(context.Background(), id)
	if err != nil {
		return commissionError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission processing started",
		Data:    record,
	})
}

// ProcessPayment marks a payable record as paid
func (cc *CommissionController) ProcessPayment(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid commission ID",
		})
	}

	var req models.ProcessPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	record, err := cc.service.ProcessPayment(context.Background(), id, req)
	if err != nil {
		return commissionError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment processed",
		Data:    record,
	})
}

// EditCommission overrides amounts and/or status on a record
func (cc *CommissionController) EditCommission(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid commission ID",
		})
	}

	var req models.CommissionEditRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	record, err := cc.service.Edit(context.Background(), id, req)
	if err != nil {
		return commissionError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission updated",
		Data:    record,
	})
}

// BulkUpdateStatus applies one target status to a set of records with
// per-record validation and reporting
func (cc *CommissionController) BulkUpdateStatus(c echo.Context) error {
	var req models.BulkStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	results, err := cc.service.BulkUpdateStatus(context.Background(), req)
	if err != nil {
		return commissionError(c, err)
	}

	updated := 0
	for _, r := range results {
		if r.Updated {
			updated++
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: fmt.Sprintf("Bulk update applied to %d of %d records", updated, len(results)),
		Data:    results,
	})
}

func (cc *CommissionController) exportDetails(c echo.Context) ([]map[string]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	records, err := cc.service.List(ctx, parseCommissionFilter(c))
	if err != nil {
		return nil, err
	}
	details, err := cc.resolveDetails(ctx, records)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(details))
	for _, detail := range details {
		rows = append(rows, services.CommissionExportRow(detail))
	}
	return rows, nil
}

// ExportCSV downloads the filtered ledger as a CSV attachment
func (cc *CommissionController) ExportCSV(c echo.Context) error {
	rows, err := cc.exportDetails(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error exporting commission records",
		})
	}

	filename := fmt.Sprintf("commissions-%s-%s.csv", time.Now().Format("20060102"), uuid.NewString()[:8])
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv",
		[]byte(services.BuildCSV(services.CommissionExportHeaders, rows)))
}

// ExportPDF downloads the filtered ledger as a PDF attachment
func (cc *CommissionController) ExportPDF(c echo.Context) error {
	rows, err := cc.exportDetails(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error exporting commission records",
		})
	}

	pdfBytes, err := services.BuildTablePDF("Commission Disbursements", services.CommissionExportHeaders, rows)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error building PDF",
		})
	}

	filename := fmt.Sprintf("commissions-%s-%s.pdf", time.Now().Format("20060102"), uuid.NewString()[:8])
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}
