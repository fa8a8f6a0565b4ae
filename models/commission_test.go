package models

import "testing"

func TestDisbursementStatusPayable(t *testing.T) {
	payable := []DisbursementStatus{DisbursementApproved, DisbursementProcessing}
	for _, s := range payable {
		if !s.Payable() {
			t.Errorf("%s.Payable() = false, want true", s)
		}
	}

	notPayable := []DisbursementStatus{
		DisbursementPending, DisbursementPaid, DisbursementFailed, DisbursementRejected,
	}
	for _, s := range notPayable {
		if s.Payable() {
			t.Errorf("%s.Payable() = true, want false", s)
		}
	}
}

func TestDisbursementStatusTerminal(t *testing.T) {
	if !DisbursementPaid.Terminal() || !DisbursementRejected.Terminal() {
		t.Error("paid and rejected should be terminal")
	}
	for _, s := range []DisbursementStatus{DisbursementPending, DisbursementApproved, DisbursementProcessing} {
		if s.Terminal() {
			t.Errorf("%s.Terminal() = true, want false", s)
		}
	}
}

func TestDisbursementStatusValid(t *testing.T) {
	for _, s := range []DisbursementStatus{
		DisbursementPending, DisbursementApproved, DisbursementProcessing,
		DisbursementPaid, DisbursementFailed, DisbursementRejected,
	} {
		if !s.Valid() {
			t.Errorf("%s.Valid() = false, want true", s)
		}
	}
	if DisbursementStatus("archived").Valid() {
		t.Error("unknown status reported valid")
	}
}
