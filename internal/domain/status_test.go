package domain

import (
	"testing"
	"time"
)

func TestIsValidTransition(t *testing.T) {
	allowed := map[TicketStatus]map[TicketStatus]bool{
		TicketStatusPending:    {TicketStatusInProgress: true, TicketStatusCancelled: true},
		TicketStatusInProgress: {TicketStatusDone: true, TicketStatusCancelled: true, TicketStatusPending: true},
		TicketStatusDone:       {TicketStatusInProgress: true},
		TicketStatusCancelled:  {TicketStatusPending: true},
	}
	for _, from := range TicketStatuses {
		current := from
		for _, to := range TicketStatuses {
			if got, want := IsValidTransition(&current, to), allowed[from][to]; got != want {
				t.Errorf("IsValidTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestIsValidTransitionFromNone(t *testing.T) {
	for _, to := range TicketStatuses {
		if got, want := IsValidTransition(nil, to), to == TicketStatusPending; got != want {
			t.Errorf("IsValidTransition(nil, %s) = %v, want %v", to, got, want)
		}
	}
}

func TestIsValidTransitionRejectsUnknown(t *testing.T) {
	pending := TicketStatusPending
	if IsValidTransition(&pending, "archived") {
		t.Fatal("expected unknown target to be rejected")
	}
	unknown := TicketStatus("archived")
	if IsValidTransition(&unknown, TicketStatusPending) {
		t.Fatal("expected unknown source to be rejected")
	}
}

func TestParseTicketStatus(t *testing.T) {
	if status, ok := ParseTicketStatus("in_progress"); !ok || status != TicketStatusInProgress {
		t.Fatalf("ParseTicketStatus(in_progress) = %q, %v", status, ok)
	}
	if _, ok := ParseTicketStatus("IN_PROGRESS"); ok {
		t.Fatal("expected status parsing to be case-sensitive")
	}
}

func TestCurrentStatus(t *testing.T) {
	if CurrentStatus(nil) != nil {
		t.Fatal("expected nil status for empty history")
	}
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	history := []StatusEvent{
		{Status: TicketStatusInProgress, OccurredAt: base.Add(time.Minute)},
		{Status: TicketStatusDone, OccurredAt: base.Add(2 * time.Minute)},
		{Status: TicketStatusPending, OccurredAt: base},
	}
	if got := CurrentStatus(history); got == nil || *got != TicketStatusDone {
		t.Fatalf("expected latest event to win, got %v", got)
	}
}
