package enums

import "testing"

func TestParseTransactionType(t *testing.T) {
	for _, value := range []string{
		"STOCK_IN", "INITIAL_COUNT", "RESERVATION",
		"RESERVATION_COMPENSATION", "CONSUMPTION", "AUDIT_ADJUSTMENT",
	} {
		parsed, err := ParseTransactionType(value)
		if err != nil {
			t.Fatalf("parse %s: %v", value, err)
		}
		if !parsed.IsValid() {
			t.Fatalf("parsed %s should be valid", value)
		}
	}

	if _, err := ParseTransactionType("stock_in"); err == nil {
		t.Fatal("lowercase input must be rejected")
	}
	if TransactionType("RETURN").IsValid() {
		t.Fatal("unknown type must be invalid")
	}
}

func TestJobStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to JobStatus
	}{
		{JobStatusPending, JobStatusScheduled},
		{JobStatusPending, JobStatusCanceled},
		{JobStatusScheduled, JobStatusInProgress},
		{JobStatusScheduled, JobStatusCanceled},
		{JobStatusInProgress, JobStatusCompleted},
		{JobStatusInProgress, JobStatusCanceled},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct {
		from, to JobStatus
	}{
		{JobStatusPending, JobStatusCompleted},
		{JobStatusCompleted, JobStatusInProgress},
		{JobStatusCanceled, JobStatusScheduled},
		{JobStatusInProgress, JobStatusPending},
	}
	for _, tc := range denied {
		if tc.from.CanTransitionTo(tc.to) {
			t.Errorf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestParseQuoteStatus(t *testing.T) {
	if _, err := ParseQuoteStatus("APPROVED"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseQuoteStatus("SENT"); err == nil {
		t.Fatal("unknown status must be rejected")
	}
}

func TestParseMemberRole(t *testing.T) {
	if _, err := ParseMemberRole("owner"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if MemberRole("admin").IsValid() {
		t.Fatal("unknown role must be invalid")
	}
}
