package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/agencydesk/agency-tickets/internal/domain"
	"github.com/agencydesk/agency-tickets/internal/events"
	"github.com/agencydesk/agency-tickets/internal/repository/sqlite"
	apperrors "github.com/agencydesk/agency-tickets/pkg/util/errorutil"
)

// steppingClock advances one second per reading.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	store      *sqlite.Store
	dispatcher events.Dispatcher
	agents     *AgentService
	tickets    *TicketService
	stats      *StatisticsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "agency.db"))
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	clock := &steppingClock{now: time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)}
	dispatcher := events.NewInMemoryDispatcher()
	deps := Dependencies{Store: store, Dispatcher: dispatcher, Clock: clock.Now}
	return &fixture{
		store:      store,
		dispatcher: dispatcher,
		agents:     NewAgentService(deps),
		tickets:    NewTicketService(deps),
		stats:      NewStatisticsService(deps),
	}
}

func (f *fixture) agent(t *testing.T, email, phone string) *domain.Agent {
	t.Helper()
	agent, err := f.agents.CreateAgent(context.Background(), AgentCreateInput{
		Surname:    "Diallo",
		GivenNames: "Mariam",
		BirthYear:  1988,
		Category:   domain.AgentCategoryTransaction,
		Email:      email,
		Phone:      phone,
	})
	if err != nil {
		t.Fatalf("CreateAgent(%s) error = %v", email, err)
	}
	return agent
}

func (f *fixture) ticket(t *testing.T, agentID string) *domain.Ticket {
	t.Helper()
	ticket, err := f.tickets.CreateTicket(context.Background(), TicketCreateInput{
		AgentID:         agentID,
		ServiceCategory: "Account opening",
		Description:     "Open a savings account for a new client",
	})
	if err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}
	return ticket
}

func (f *fixture) setStatus(t *testing.T, ticketID, agentID string, status domain.TicketStatus) {
	t.Helper()
	if _, err := f.tickets.UpdateTicketStatus(context.Background(), ticketID, agentID, status); err != nil {
		t.Fatalf("UpdateTicketStatus(%s) error = %v", status, err)
	}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	if !apperrors.HasCode(err, code) {
		t.Fatalf("expected error code %s, got %v", code, err)
	}
}

func ptr[T any](v T) *T {
	return &v
}
