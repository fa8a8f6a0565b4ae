package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rentshore/rentshore_backend/models"
	"github.com/rentshore/rentshore_backend/repositories"
)

// DefaultAdminRate is the platform's cut of every booking total
const DefaultAdminRate = 0.10

var (
	ErrInvalidTransition = errors.New("disbursement status transition not allowed")
	ErrReasonRequired    = errors.New("rejection reason is required")
	ErrSplitMismatch     = errors.New("split amounts must sum exactly to the total booking amount")
	ErrInvalidAmount     = errors.New("amounts must be non-negative")
	ErrInvalidStatus     = errors.New("unknown disbursement status")
)

// Operator transitions. "failed" is absent on purpose: it is set by the
// payout provider, never from here.
var allowedTransitions = map[models.DisbursementStatus][]models.DisbursementStatus{
	models.DisbursementPending:    {models.DisbursementApproved, models.DisbursementRejected},
	models.DisbursementApproved:   {models.DisbursementProcessing, models.DisbursementPaid},
	models.DisbursementProcessing: {models.DisbursementPaid},
}

// CanTransition reports whether an operator may move a record from one
// disbursement status to another
func CanTransition(from, to models.DisbursementStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CalculateSplit computes the three-way revenue split for a booking, in minor
// units. The admin commission is a fixed share of the total; the owner keeps
// the remainder after the agent's cut, floored at zero so a shortfall is
// absorbed by the owner share rather than going negative.
func CalculateSplit(totalAmount, agentCommission int64) (adminCommission, ownerShare int64, err error) {
	if totalAmount < 0 || agentCommission < 0 {
		return 0, 0, ErrInvalidAmount
	}

	adminCommission = roundCents(float64(totalAmount) * DefaultAdminRate)
	ownerShare = totalAmount - adminCommission - agentCommission
	if ownerShare < 0 {
		ownerShare = 0
	}
	return adminCommission, ownerShare, nil
}

func roundCents(x float64) int64 {
	return int64(math.Round(x))
}

// percentOf returns amount as a percentage of total, 0 when total is 0
func percentOf(amount, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(amount) / float64(total) * 100
}

// CommissionService owns every disbursement status transition. Single-record,
// bulk and edit paths all pass through the same transition table.
type CommissionService struct {
	repo repositories.CommissionRepository
	now  func() time.Time
}

// NewCommissionService creates a new commission service
func NewCommissionService(repo repositories.CommissionRepository) *CommissionService {
	return &CommissionService{repo: repo, now: time.Now}
}

// CreateForBooking cuts a pending commission record for a confirmed booking.
// This is the only place a split is computed; every reader reports the stored
// per-record fields.
func (s *CommissionService) CreateForBooking(ctx context.Context, booking *models.Booking) (*models.CommissionRecord, error) {
	adminCommission, ownerShare, err := CalculateSplit(booking.TotalAmount, booking.AgentCommission)
	if err != nil {
		return nil, err
	}

	agentCommission := booking.AgentCommission
	// The floor on the owner share may absorb part of the agent's cut; keep
	// the stored fields summing to the total
	if adminCommission+ownerShare+agentCommission != booking.TotalAmount {
		agentCommission = booking.TotalAmount - adminCommission - ownerShare
	}

	record := &models.CommissionRecord{
		BookingID:          booking.ID,
		PropertyID:         booking.PropertyID,
		OwnerID:            booking.OwnerID,
		AgentID:            booking.AgentID,
		TotalBookingAmount: booking.TotalAmount,
		AdminCommission:    adminCommission,
		OwnerShare:         ownerShare,
		AgentCommission:    agentCommission,
		Status:             models.DisbursementPending,
		CreatedAt:          s.now(),
		UpdatedAt:          s.now(),
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Get fetches one record
func (s *CommissionService) Get(ctx context.Context, id primitive.ObjectID) (*models.CommissionRecord, error) {
	return s.repo.Get(ctx, id)
}

// List fetches records matching the filter
func (s *CommissionService) List(ctx context.Context, filter models.CommissionFilter) ([]models.CommissionRecord, error) {
	return s.repo.List(ctx, filter)
}

// Approve moves a pending record to approved. Approving an already-approved
// record is a no-op success: same terminal state, amounts untouched.
func (s *CommissionService) Approve(ctx context.Context, id primitive.ObjectID, notes string) (*models.CommissionRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if record.Status == models.DisbursementApproved {
		return record, nil
	}
	if !CanTransition(record.Status, models.DisbursementApproved) {
		return nil, fmt.Errorf("%w: %s -> approved", ErrInvalidTransition, record.Status)
	}

	record.Status = models.DisbursementApproved
	if notes != "" {
		record.Notes = notes
	}
	record.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Reject moves a pending record to rejected. A non-empty reason is mandatory;
// nothing is written without one.
func (s *CommissionService) Reject(ctx context.Context, id primitive.ObjectID, reason string) (*models.CommissionRecord, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(record.Status, models.DisbursementRejected) {
		return nil, fmt.Errorf("%w: %s -> rejected", ErrInvalidTransition, record.Status)
	}

	record.Status = models.DisbursementRejected
	record.RejectionReason = reason
	record.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// StartProcessing moves an approved record into processing
func (s *CommissionService) StartProcessing(ctx context.Context, id primitive.ObjectID) (*models.CommissionRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(record.Status, models.DisbursementProcessing) {
		return nil, fmt.Errorf("%w: %s -> processing", ErrInvalidTransition, record.Status)
	}

	record.Status = models.DisbursementProcessing
	record.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ProcessPayment marks a payable record as paid and stores the payment
// metadata. The payment reference is caller-trusted; there is no gateway
// round trip behind it.
func (s *CommissionService) ProcessPayment(ctx context.Context, id primitive.ObjectID, req models.ProcessPaymentRequest) (*models.CommissionRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !record.Status.Payable() {
		return nil, fmt.Errorf("%w: %s -> paid", ErrInvalidTransition, record.Status)
	}

	paymentDate := s.now()
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}
	reference := req.PaymentReference
	if reference == "" {
		reference = "PAY-" + uuid.NewString()
	}

	record.Status = models.DisbursementPaid
	record.PaymentMethod = req.PaymentMethod
	record.PaymentReference = reference
	record.PaymentDate = &paymentDate
	record.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Edit overrides amounts and/or status on a record. Amount overrides must sum
// exactly to the stored total; the check runs before any store write. Status
// changes go through the same transition table as the dedicated endpoints.
func (s *CommissionService) Edit(ctx context.Context, id primitive.ObjectID, req models.CommissionEditRequest) (*models.CommissionRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	admin := record.AdminCommission
	owner := record.OwnerShare
	agent := record.AgentCommission
	if req.AdminCommission != nil {
		admin = *req.AdminCommission
	}
	if req.OwnerShare != nil {
		owner = *req.OwnerShare
	}
	if req.AgentCommission != nil {
		agent = *req.AgentCommission
	}
	if admin < 0 || owner < 0 || agent < 0 {
		return nil, ErrInvalidAmount
	}
	if admin+owner+agent != record.TotalBookingAmount {
		return nil, ErrSplitMismatch
	}

	if req.Status != nil && *req.Status != record.Status {
		if !req.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		if !CanTransition(record.Status, *req.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, record.Status, *req.Status)
		}
		record.Status = *req.Status
	}

	record.AdminCommission = admin
	record.OwnerShare = owner
	record.AgentCommission = agent
	if req.Notes != nil {
		record.Notes = *req.Notes
	}
	record.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Bulk targets an operator may fan out to. Paid is excluded: it needs
// per-record payment metadata.
var bulkTargets = map[models.DisbursementStatus]bool{
	models.DisbursementApproved:   true,
	models.DisbursementRejected:   true,
	models.DisbursementProcessing: true,
}

// BulkUpdateStatus applies one target status to a set of records, validating
// each record's transition individually and reporting per-id results. There
// is no cross-record atomicity; a failure on one record leaves the others as
// they landed.
func (s *CommissionService) BulkUpdateStatus(ctx context.Context, req models.BulkStatusRequest) ([]models.BulkItemResult, error) {
	if !bulkTargets[req.Status] {
		return nil, fmt.Errorf("%w: bulk update to %q not supported", ErrInvalidStatus, req.Status)
	}
	if req.Status == models.DisbursementRejected && strings.TrimSpace(req.Reason) == "" {
		return nil, ErrReasonRequired
	}

	results := make([]models.BulkItemResult, 0, len(req.IDs))
	for _, rawID := range req.IDs {
		result := models.BulkItemResult{ID: rawID}

		id, err := primitive.ObjectIDFromHex(rawID)
		if err != nil {
			result.Error = "invalid record id"
			results = append(results, result)
			continue
		}

		record, err := s.repo.Get(ctx, id)
		if err != nil {
			result.Error = "record not found"
			results = append(results, result)
			continue
		}

		if record.Status == req.Status {
			// Already there; count as success without a write
			results = append(results, result)
			continue
		}
		if !CanTransition(record.Status, req.Status) {
			result.Error = fmt.Sprintf("transition %s -> %s not allowed", record.Status, req.Status)
			results = append(results, result)
			continue
		}

		record.Status = req.Status
		if req.Status == models.DisbursementRejected {
			record.RejectionReason = req.Reason
		}
		record.UpdatedAt = s.now()

		if err := s.repo.Update(ctx, record); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		result.Updated = true
		results = append(results, result)
	}

	return results, nil
}

// Summarize sums the stored per-record split fields over the filtered set.
// Rejected records are excluded from the totals; percentages are 0 across the
// board for an empty set.
func (s *CommissionService) Summarize(ctx context.Context, filter models.CommissionFilter) (*models.RevenueSplitSummary, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := &models.RevenueSplitSummary{}
	for _, record := range records {
		if record.Status == models.DisbursementRejected {
			continue
		}
		summary.TotalBookingAmount += record.TotalBookingAmount
		summary.AdminCommission += record.AdminCommission
		summary.OwnerShare += record.OwnerShare
		summary.AgentCommission += record.AgentCommission
		summary.RecordCount++
	}

	summary.AdminPercent = percentOf(summary.AdminCommission, summary.TotalBookingAmount)
	summary.OwnerPercent = percentOf(summary.OwnerShare, summary.TotalBookingAmount)
	summary.AgentPercent = percentOf(summary.AgentCommission, summary.TotalBookingAmount)

	return summary, nil
}
