package service

import (
	"context"
	"testing"

	"github.com/agencydesk/agency-tickets/internal/domain"
	apperrors "github.com/agencydesk/agency-tickets/pkg/util/errorutil"
)

func TestAgentStatisticsCountsEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := f.agent(t, "mariam@agency.test", "+225 01020304")
	helper := f.agent(t, "ali@agency.test", "+225 05060708")

	first := f.ticket(t, agent.ID)
	second := f.ticket(t, agent.ID)
	// The third ticket's pending event belongs to the agent who opened it.
	third := f.ticket(t, helper.ID)
	if _, err := f.tickets.UpdateTicket(ctx, third.ID, TicketUpdateInput{AgentID: &agent.ID}); err != nil {
		t.Fatalf("UpdateTicket() error = %v", err)
	}
	f.setStatus(t, first.ID, agent.ID, domain.TicketStatusInProgress)
	f.setStatus(t, first.ID, agent.ID, domain.TicketStatusDone)
	f.setStatus(t, second.ID, agent.ID, domain.TicketStatusInProgress)

	stats, err := f.stats.AgentStatistics(ctx, agent.ID)
	if err != nil {
		t.Fatalf("AgentStatistics() error = %v", err)
	}
	if stats.FullName != "Mariam Diallo" {
		t.Fatalf("expected full name Mariam Diallo, got %q", stats.FullName)
	}
	if stats.TotalTickets != 3 {
		t.Fatalf("expected 3 tickets, got %d", stats.TotalTickets)
	}
	want := map[domain.TicketStatus]int64{
		domain.TicketStatusPending:    2,
		domain.TicketStatusInProgress: 2,
		domain.TicketStatusDone:       1,
		domain.TicketStatusCancelled:  0,
	}
	for status, count := range want {
		if stats.EventsByStatus[status] != count {
			t.Fatalf("expected %d %s events, got %d", count, status, stats.EventsByStatus[status])
		}
	}

	_, err = f.stats.AgentStatistics(ctx, missingID)
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestAgentStatisticsAttributesEventsToAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.agent(t, "mariam@agency.test", "+225 01020304")
	helper := f.agent(t, "ali@agency.test", "+225 05060708")
	ticket := f.ticket(t, owner.ID)
	f.setStatus(t, ticket.ID, helper.ID, domain.TicketStatusInProgress)

	stats, err := f.stats.AgentStatistics(ctx, helper.ID)
	if err != nil {
		t.Fatalf("AgentStatistics() error = %v", err)
	}
	if stats.TotalTickets != 0 || stats.EventsByStatus[domain.TicketStatusInProgress] != 1 {
		t.Fatalf("unexpected helper stats %#v", stats)
	}
}

func TestGlobalStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.stats.GlobalStatistics(ctx)
	if err != nil {
		t.Fatalf("GlobalStatistics() error = %v", err)
	}
	if len(empty.EventsByStatus) != len(domain.TicketStatuses) || len(empty.AgentsByCategory) != len(domain.AgentCategories) {
		t.Fatalf("expected zero-filled maps, got %#v", empty)
	}

	transaction := f.agent(t, "mariam@agency.test", "+225 01020304")
	_, err = f.agents.CreateAgent(ctx, AgentCreateInput{
		Surname: "Traore", GivenNames: "Ali", BirthYear: 1979, Category: domain.AgentCategoryAdvisory,
		Email: "ali@agency.test", Phone: "+225 05060708",
	})
	if err != nil {
		t.Fatalf("CreateAgent() error = %v", err)
	}
	ticket := f.ticket(t, transaction.ID)
	f.setStatus(t, ticket.ID, transaction.ID, domain.TicketStatusCancelled)

	global, err := f.stats.GlobalStatistics(ctx)
	if err != nil {
		t.Fatalf("GlobalStatistics() error = %v", err)
	}
	if global.TotalAgents != 2 || global.TotalTickets != 1 {
		t.Fatalf("unexpected totals %#v", global)
	}
	if global.AgentsByCategory[domain.AgentCategoryTransaction] != 1 || global.AgentsByCategory[domain.AgentCategoryAdvisory] != 1 {
		t.Fatalf("unexpected category counts %#v", global.AgentsByCategory)
	}
	if global.EventsByStatus[domain.TicketStatusPending] != 1 || global.EventsByStatus[domain.TicketStatusCancelled] != 1 {
		t.Fatalf("unexpected status counts %#v", global.EventsByStatus)
	}
	if global.GeneratedAt.IsZero() {
		t.Fatal("expected generated_at to be set")
	}
}
