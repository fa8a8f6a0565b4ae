package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DisbursementStatus is the payout lifecycle stage of a commission record
type DisbursementStatus string

const (
	DisbursementPending    DisbursementStatus = "pending"
	DisbursementApproved   DisbursementStatus = "approved"
	DisbursementProcessing DisbursementStatus = "processing"
	DisbursementPaid       DisbursementStatus = "paid"
	DisbursementFailed     DisbursementStatus = "failed" // set externally by the payout provider, never by this code
	DisbursementRejected   DisbursementStatus = "rejected"
)

// Payable reports whether a payment can be processed from this status
func (s DisbursementStatus) Payable() bool {
	return s == DisbursementApproved || s == DisbursementProcessing
}

// Terminal reports whether no further operator transition is defined
func (s DisbursementStatus) Terminal() bool {
	return s == DisbursementPaid || s == DisbursementRejected
}

// Valid reports whether s is a known disbursement status
func (s DisbursementStatus) Valid() bool {
	switch s {
	case DisbursementPending, DisbursementApproved, DisbursementProcessing,
		DisbursementPaid, DisbursementFailed, DisbursementRejected:
		return true
	}
	return false
}

// CommissionRecord is one booking's three-way revenue split and its payout
// lifecycle. All amounts are in minor units (cents) and must satisfy
// AdminCommission + OwnerShare + AgentCommission == TotalBookingAmount.
type CommissionRecord struct {
	ID         primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID  primitive.ObjectID  `json:"bookingId" bson:"bookingId"`
	PropertyID primitive.ObjectID  `json:"propertyId" bson:"propertyId"`
	OwnerID    primitive.ObjectID  `json:"ownerId" bson:"ownerId"`
	AgentID    *primitive.ObjectID `json:"agentId,omitempty" bson:"agentId,omitempty"`

	TotalBookingAmount int64 `json:"totalBookingAmount" bson:"totalBookingAmount"`
	AdminCommission    int64 `json:"adminCommission" bson:"adminCommission"`
	OwnerShare         int64 `json:"ownerShare" bson:"ownerShare"`
	AgentCommission    int64 `json:"agentCommission" bson:"agentCommission"`

	Status          DisbursementStatus `json:"disbursementStatus" bson:"disbursementStatus"`
	Notes           string             `json:"notes,omitempty" bson:"notes,omitempty"`
	RejectionReason string             `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`

	// Payment metadata, populated once the record reaches "paid"
	PaymentMethod    string     `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	PaymentReference string     `json:"paymentReference,omitempty" bson:"paymentReference,omitempty"`
	PaymentDate      *time.Time `json:"paymentDate,omitempty" bson:"paymentDate,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// CommissionRecordDetail joins the display fields resolved via
// booking -> property -> profiles; none of these are persisted on the record
type CommissionRecordDetail struct {
	CommissionRecord `bson:",inline"`
	PropertyTitle    string     `json:"propertyTitle,omitempty" bson:"propertyTitle,omitempty"`
	OwnerName        string     `json:"ownerName,omitempty" bson:"ownerName,omitempty"`
	OwnerEmail       string     `json:"ownerEmail,omitempty" bson:"ownerEmail,omitempty"`
	AgentName        string     `json:"agentName,omitempty" bson:"agentName,omitempty"`
	AgentEmail       string     `json:"agentEmail,omitempty" bson:"agentEmail,omitempty"`
	CheckIn          *time.Time `json:"checkIn,omitempty" bson:"checkIn,omitempty"`
	CheckOut         *time.Time `json:"checkOut,omitempty" bson:"checkOut,omitempty"`
}

// CommissionFilter restricts list/summary queries
type CommissionFilter struct {
	Status   DisbursementStatus `json:"status,omitempty" query:"status"`
	OwnerID  string             `json:"ownerId,omitempty" query:"ownerId"`
	AgentID  string             `json:"agentId,omitempty" query:"agentId"`
	DateFrom *time.Time         `json:"dateFrom,omitempty" query:"dateFrom"`
	DateTo   *time.Time         `json:"dateTo,omitempty" query:"dateTo"`
}

// ApproveRequest model
type ApproveRequest struct {
	Notes string `json:"notes,omitempty"`
}

// RejectRequest model
type RejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ProcessPaymentRequest model
type ProcessPaymentRequest struct {
	PaymentMethod    string     `json:"paymentMethod" validate:"required"`
	PaymentReference string     `json:"paymentReference,omitempty"` // generated when empty
	PaymentDate      *time.Time `json:"paymentDate,omitempty"`
}

// CommissionEditRequest overrides amounts and/or status on a record.
// Amount overrides must sum exactly to the record's total booking amount.
type CommissionEditRequest struct {
	AdminCommission *int64              `json:"adminCommission,omitempty"`
	OwnerShare      *int64              `json:"ownerShare,omitempty"`
	AgentCommission *int64              `json:"agentCommission,omitempty"`
	Status          *DisbursementStatus `json:"status,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
}

// BulkStatusRequest applies one target status to a set of records
type BulkStatusRequest struct {
	IDs    []string           `json:"ids" validate:"required,min=1"`
	Status DisbursementStatus `json:"status" validate:"required"`
	Reason string             `json:"reason,omitempty"` // required when Status is "rejected"
}

// BulkItemResult reports the outcome for one record of a bulk action
type BulkItemResult struct {
	ID      string `json:"id"`
	Updated bool   `json:"updated"`
	Error   string `json:"error,omitempty"`
}

// RevenueSplitSummary aggregates the stored per-record split fields over a
// filtered record set. Recomputed per request, never persisted.
type RevenueSplitSummary struct {
	TotalBookingAmount int64   `json:"totalBookingAmount"`
	AdminCommission    int64   `json:"adminCommission"`
	OwnerShare         int64   `json:"ownerShare"`
	AgentCommission    int64   `json:"agentCommission"`
	AdminPercent       float64 `json:"adminPercent"`
	OwnerPercent       float64 `json:"ownerPercent"`
	AgentPercent       float64 `json:"agentPercent"`
	RecordCount        int     `json:"recordCount"`
}
