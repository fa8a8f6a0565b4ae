package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rentshore/rentshore_backend/models"
	"github.com/rentshore/rentshore_backend/repositories"
)

// fakeCommissionRepo is an in-memory repository for exercising the service
// without a database
type fakeCommissionRepo struct {
	records map[primitive.ObjectID]models.CommissionRecord
	updates int
	inserts int
}

func newFakeRepo() *fakeCommissionRepo {
	return &fakeCommissionRepo{records: make(map[primitive.ObjectID]models.CommissionRecord)}
}

func (f *fakeCommissionRepo) Get(_ context.Context, id primitive.ObjectID) (*models.CommissionRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &record, nil
}

func (f *fakeCommissionRepo) List(_ context.Context, filter models.CommissionFilter) ([]models.CommissionRecord, error) {
	var out []models.CommissionRecord
	for _, record := range f.records {
		if filter.Status != "" && record.Status != filter.Status {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (f *fakeCommissionRepo) Insert(_ context.Context, record *models.CommissionRecord) error {
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	f.records[record.ID] = *record
	f.inserts++
	return nil
}

func (f *fakeCommissionRepo) Update(_ context.Context, record *models.CommissionRecord) error {
	if _, ok := f.records[record.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	f.records[record.ID] = *record
	f.updates++
	return nil
}

func (f *fakeCommissionRepo) Watch(_ context.Context) (<-chan repositories.CommissionChangeEvent, error) {
	ch := make(chan repositories.CommissionChangeEvent)
	close(ch)
	return ch, nil
}

func (f *fakeCommissionRepo) seed(status models.DisbursementStatus, total, admin, owner, agent int64) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.records[id] = models.CommissionRecord{
		ID:                 id,
		BookingID:          primitive.NewObjectID(),
		PropertyID:         primitive.NewObjectID(),
		OwnerID:            primitive.NewObjectID(),
		TotalBookingAmount: total,
		AdminCommission:    admin,
		OwnerShare:         owner,
		AgentCommission:    agent,
		Status:             status,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	return id
}

func newTestService(repo *fakeCommissionRepo) *CommissionService {
	svc := NewCommissionService(repo)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestCalculateSplit(t *testing.T) {
	tests := []struct {
		name            string
		total           int64
		agentCommission int64
		wantAdmin       int64
		wantOwner       int64
	}{
		{"standard booking with agent", 100000, 60000, 10000, 30000},
		{"no agent", 100000, 0, 10000, 90000},
		{"admin commission rounds", 99999, 0, 10000, 89999},
		{"agent cut exceeds remainder", 100000, 95000, 10000, 0},
		{"zero total", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin, owner, err := CalculateSplit(tt.total, tt.agentCommission)
			if err != nil {
				t.Fatalf("CalculateSplit returned error: %v", err)
			}
			if admin != tt.wantAdmin || owner != tt.wantOwner {
				t.Errorf("CalculateSplit(%d, %d) = admin %d, owner %d; want admin %d, owner %d",
					tt.total, tt.agentCommission, admin, owner, tt.wantAdmin, tt.wantOwner)
			}
		})
	}
}

func TestCalculateSplitNegativeAmounts(t *testing.T) {
	if _, _, err := CalculateSplit(-1, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for negative total, got %v", err)
	}
	if _, _, err := CalculateSplit(100, -1); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for negative agent commission, got %v", err)
	}
}

func TestCreateForBookingSumsToTotal(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	booking := &models.Booking{
		ID:              primitive.NewObjectID(),
		PropertyID:      primitive.NewObjectID(),
		GuestID:         primitive.NewObjectID(),
		OwnerID:         primitive.NewObjectID(),
		TotalAmount:     100000,
		AgentCommission: 95000, // forces the owner-share floor
	}

	record, err := svc.CreateForBooking(context.Background(), booking)
	if err != nil {
		t.Fatalf("CreateForBooking returned error: %v", err)
	}

	sum := record.AdminCommission + record.OwnerShare + record.AgentCommission
	if sum != record.TotalBookingAmount {
		t.Errorf("split fields sum to %d, want total %d", sum, record.TotalBookingAmount)
	}
	if record.Status != models.DisbursementPending {
		t.Errorf("new record status = %q, want pending", record.Status)
	}
}

func TestApproveIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := repo.seed(models.DisbursementApproved, 100000, 10000, 30000, 60000)

	before := repo.records[id]
	record, err := svc.Approve(context.Background(), id, "")
	if err != nil {
		t.Fatalf("approving an approved record should succeed, got %v", err)
	}
	if record.Status != models.DisbursementApproved {
		t.Errorf("status = %q, want approved", record.Status)
	}
	if repo.updates != 0 {
		t.Errorf("re-approval wrote %d updates, want 0", repo.updates)
	}
	after := repo.records[id]
	if before.AdminCommission != after.AdminCommission ||
		before.OwnerShare != after.OwnerShare ||
		before.AgentCommission != after.AgentCommission {
		t.Error("re-approval changed stored amounts")
	}
}

func TestRejectRequiresReason(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := repo.seed(models.DisbursementPending, 100000, 10000, 30000, 60000)

	for _, reason := range []string{"", "   ", "\t\n"} {
		if _, err := svc.Reject(context.Background(), id, reason); !errors.Is(err, ErrReasonRequired) {
			t.Errorf("Reject with reason %q: got %v, want ErrReasonRequired", reason, err)
		}
	}
	if repo.updates != 0 {
		t.Errorf("reason-less rejections wrote %d updates, want 0", repo.updates)
	}
	if repo.records[id].Status != models.DisbursementPending {
		t.Error("record left pending state without a valid rejection")
	}

	record, err := svc.Reject(context.Background(), id, "duplicate booking")
	if err != nil {
		t.Fatalf("Reject with reason returned error: %v", err)
	}
	if record.Status != models.DisbursementRejected || record.RejectionReason != "duplicate booking" {
		t.Errorf("rejected record = %q / %q", record.Status, record.RejectionReason)
	}
}

func TestProcessPaymentGuardsStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	pendingID := repo.seed(models.DisbursementPending, 100000, 10000, 30000, 60000)
	if _, err := svc.ProcessPayment(context.Background(), pendingID, models.ProcessPaymentRequest{
		PaymentMethod: "bank_transfer",
	}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("paying a pending record: got %v, want ErrInvalidTransition", err)
	}

	approvedID := repo.seed(models.DisbursementApproved, 100000, 10000, 30000, 60000)
	record, err := svc.ProcessPayment(context.Background(), approvedID, models.ProcessPaymentRequest{
		PaymentMethod: "bank_transfer",
	})
	if err != nil {
		t.Fatalf("paying an approved record returned error: %v", err)
	}
	if record.Status != models.DisbursementPaid {
		t.Errorf("status = %q, want paid", record.Status)
	}
	if record.PaymentReference == "" {
		t.Error("payment reference was not generated")
	}
	if record.PaymentDate == nil {
		t.Error("payment date was not set")
	}
}

func TestEditRejectsSumMismatch(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := repo.seed(models.DisbursementPending, 100000, 10000, 30000, 60000)

	admin := int64(20000)
	_, err := svc.Edit(context.Background(), id, models.CommissionEditRequest{
		AdminCommission: &admin, // 20000 + 30000 + 60000 != 100000
	})
	if !errors.Is(err, ErrSplitMismatch) {
		t.Fatalf("got %v, want ErrSplitMismatch", err)
	}
	if repo.updates != 0 {
		t.Errorf("mismatched edit wrote %d updates, want 0", repo.updates)
	}
	if repo.records[id].AdminCommission != 10000 {
		t.Error("mismatched edit changed stored amounts")
	}
}

func TestEditAppliesExactOverride(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := repo.seed(models.DisbursementPending, 100000, 10000, 30000, 60000)

	admin, owner, agent := int64(15000), int64(35000), int64(50000)
	record, err := svc.Edit(context.Background(), id, models.CommissionEditRequest{
		AdminCommission: &admin,
		OwnerShare:      &owner,
		AgentCommission: &agent,
	})
	if err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}
	if record.AdminCommission != admin || record.OwnerShare != owner || record.AgentCommission != agent {
		t.Errorf("edit result = %d/%d/%d", record.AdminCommission, record.OwnerShare, record.AgentCommission)
	}
}

func TestEditStatusUsesTransitionTable(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := repo.seed(models.DisbursementPaid, 100000, 10000, 30000, 60000)

	pending := models.DisbursementPending
	if _, err := svc.Edit(context.Background(), id, models.CommissionEditRequest{
		Status: &pending,
	}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("edit paid -> pending: got %v, want ErrInvalidTransition", err)
	}
}

func TestBulkUpdateReportsPerRecord(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	pendingID := repo.seed(models.DisbursementPending, 100000, 10000, 30000, 60000)
	paidID := repo.seed(models.DisbursementPaid, 50000, 5000, 45000, 0)
	approvedID := repo.seed(models.DisbursementApproved, 20000, 2000, 18000, 0)

	results, err := svc.BulkUpdateStatus(context.Background(), models.BulkStatusRequest{
		IDs:    []string{pendingID.Hex(), paidID.Hex(), approvedID.Hex(), "not-an-id"},
		Status: models.DisbursementApproved,
	})
	if err != nil {
		t.Fatalf("BulkUpdateStatus returned error: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}

	byID := map[string]models.BulkItemResult{}
	for _, r := range results {
		byID[r.ID] = r
	}

	if r := byID[pendingID.Hex()]; !r.Updated || r.Error != "" {
		t.Errorf("pending record result = %+v, want updated", r)
	}
	if r := byID[paidID.Hex()]; r.Updated || r.Error == "" {
		t.Errorf("paid record result = %+v, want transition error", r)
	}
	if repo.records[paidID].Status != models.DisbursementPaid {
		t.Error("bulk update moved a paid record")
	}
	// Already in the target state: success without a write
	if r := byID[approvedID.Hex()]; r.Updated || r.Error != "" {
		t.Errorf("approved record result = %+v, want no-op success", r)
	}
	if r := byID["not-an-id"]; r.Error == "" {
		t.Error("malformed id should report an error")
	}
}

func TestBulkRejectRequiresReason(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := repo.seed(models.DisbursementPending, 100000, 10000, 30000, 60000)

	_, err := svc.BulkUpdateStatus(context.Background(), models.BulkStatusRequest{
		IDs:    []string{id.Hex()},
		Status: models.DisbursementRejected,
	})
	if !errors.Is(err, ErrReasonRequired) {
		t.Errorf("got %v, want ErrReasonRequired", err)
	}
}

func TestBulkPaidNotATarget(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := repo.seed(models.DisbursementApproved, 100000, 10000, 30000, 60000)

	_, err := svc.BulkUpdateStatus(context.Background(), models.BulkStatusRequest{
		IDs:    []string{id.Hex()},
		Status: models.DisbursementPaid,
	})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("got %v, want ErrInvalidStatus", err)
	}
}

func TestSummarizeSumsStoredFields(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	repo.seed(models.DisbursementPending, 100000, 10000, 30000, 60000)
	// Edited record whose stored fields no longer follow the default rate
	repo.seed(models.DisbursementApproved, 100000, 5000, 95000, 0)
	// Rejected records are excluded
	repo.seed(models.DisbursementRejected, 999999, 99999, 900000, 0)

	summary, err := svc.Summarize(context.Background(), models.CommissionFilter{})
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}

	if summary.TotalBookingAmount != 200000 {
		t.Errorf("total = %d, want 200000", summary.TotalBookingAmount)
	}
	if summary.AdminCommission != 15000 {
		t.Errorf("admin = %d, want stored sum 15000, not a recomputed rate", summary.AdminCommission)
	}
	if summary.OwnerShare != 125000 || summary.AgentCommission != 60000 {
		t.Errorf("owner/agent = %d/%d", summary.OwnerShare, summary.AgentCommission)
	}
	if summary.RecordCount != 2 {
		t.Errorf("record count = %d, want 2", summary.RecordCount)
	}
	if summary.AdminPercent != 7.5 {
		t.Errorf("admin percent = %v, want 7.5", summary.AdminPercent)
	}
}

func TestSummarizeEmptySetPercentagesAreZero(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	summary, err := svc.Summarize(context.Background(), models.CommissionFilter{})
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary.AdminPercent != 0 || summary.OwnerPercent != 0 || summary.AgentPercent != 0 {
		t.Errorf("percentages on empty set = %v/%v/%v, want all 0",
			summary.AdminPercent, summary.OwnerPercent, summary.AgentPercent)
	}
}

func TestCanTransitionTable(t *testing.T) {
	allowed := []struct{ from, to models.DisbursementStatus }{
		{models.DisbursementPending, models.DisbursementApproved},
		{models.DisbursementPending, models.DisbursementRejected},
		{models.DisbursementApproved, models.DisbursementProcessing},
		{models.DisbursementApproved, models.DisbursementPaid},
		{models.DisbursementProcessing, models.DisbursementPaid},
	}
	for _, tr := range allowed {
		if !CanTransition(tr.from, tr.to) {
			t.Errorf("CanTransition(%s, %s) = false, want true", tr.from, tr.to)
		}
	}

	denied := []struct{ from, to models.DisbursementStatus }{
		{models.DisbursementPending, models.DisbursementPaid},
		{models.DisbursementPending, models.DisbursementProcessing},
		{models.DisbursementPaid, models.DisbursementApproved},
		{models.DisbursementRejected, models.DisbursementApproved},
		{models.DisbursementProcessing, models.DisbursementRejected},
		// "failed" is owned by the payout provider
		{models.DisbursementApproved, models.DisbursementFailed},
		{models.DisbursementFailed, models.DisbursementPending},
	}
	for _, tr := range denied {
		if CanTransition(tr.from, tr.to) {
			t.Errorf("CanTransition(%s, %s) = true, want false", tr.from, tr.to)
		}
	}
}
