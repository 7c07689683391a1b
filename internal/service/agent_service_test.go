package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/agencydesk/agency-tickets/internal/config"
	"github.com/agencydesk/agency-tickets/internal/domain"
	apperrors "github.com/agencydesk/agency-tickets/pkg/util/errorutil"
)

func TestCreateAgentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input AgentCreateInput
		field string
	}{
		{
			name:  "short surname",
			input: AgentCreateInput{Surname: "D", GivenNames: "Mariam", BirthYear: 1988, Category: domain.AgentCategoryAdvisory, Email: "m@agency.test", Phone: "+22501020304"},
			field: "surname",
		},
		{
			name:  "too young",
			input: AgentCreateInput{Surname: "Diallo", GivenNames: "Mariam", BirthYear: 2015, Category: domain.AgentCategoryAdvisory, Email: "m@agency.test", Phone: "+22501020304"},
			field: "birth_year",
		},
		{
			name:  "unknown category",
			input: AgentCreateInput{Surname: "Diallo", GivenNames: "Mariam", BirthYear: 1988, Category: "retail", Email: "m@agency.test", Phone: "+22501020304"},
			field: "category",
		},
		{
			name:  "bad email",
			input: AgentCreateInput{Surname: "Diallo", GivenNames: "Mariam", BirthYear: 1988, Category: domain.AgentCategoryAdvisory, Email: "not-an-email", Phone: "+22501020304"},
			field: "email",
		},
		{
			name:  "bad phone",
			input: AgentCreateInput{Surname: "Diallo", GivenNames: "Mariam", BirthYear: 1988, Category: domain.AgentCategoryAdvisory, Email: "m@agency.test", Phone: "12ab"},
			field: "phone",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.agents.CreateAgent(ctx, tc.input)
			requireCode(t, err, apperrors.CodeValidationFailed)
			if _, ok := apperrors.ToDomainError(err).Details[tc.field]; !ok {
				t.Fatalf("expected details for %s, got %#v", tc.field, apperrors.ToDomainError(err).Details)
			}
		})
	}
}

func TestCreateAgentRejectsDuplicateContact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.agent(t, "mariam@agency.test", "+225 01020304")

	_, err := f.agents.CreateAgent(ctx, AgentCreateInput{
		Surname: "Traore", GivenNames: "Ali", BirthYear: 1979, Category: domain.AgentCategoryAdvisory,
		Email: "mariam@agency.test", Phone: "+225 09080706",
	})
	requireCode(t, err, apperrors.CodeConflict)
	if got := apperrors.ToDomainError(err).Details["field"]; got != "email" {
		t.Fatalf("expected conflict on email, got %v", got)
	}

	_, err = f.agents.CreateAgent(ctx, AgentCreateInput{
		Surname: "Traore", GivenNames: "Ali", BirthYear: 1979, Category: domain.AgentCategoryAdvisory,
		Email: "ali@agency.test", Phone: "+225 01020304",
	})
	requireCode(t, err, apperrors.CodeConflict)
	if got := apperrors.ToDomainError(err).Details["field"]; got != "phone" {
		t.Fatalf("expected conflict on phone, got %v", got)
	}
}

func TestCreateAgentKeepsExplicitRegistration(t *testing.T) {
	f := newFixture(t)
	registered := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	agent, err := f.agents.CreateAgent(context.Background(), AgentCreateInput{
		Surname: "Kone", GivenNames: "Issa", BirthYear: 1990, Category: domain.AgentCategoryAdvisory,
		Email: "issa@agency.test", Phone: "0102030405", RegisteredAt: &registered,
	})
	if err != nil {
		t.Fatalf("CreateAgent() error = %v", err)
	}
	loaded, err := f.agents.GetAgent(context.Background(), agent.ID)
	if err != nil {
		t.Fatalf("GetAgent() error = %v", err)
	}
	if !loaded.RegisteredAt.Equal(registered) {
		t.Fatalf("expected registered_at %v, got %v", registered, loaded.RegisteredAt)
	}
}

func TestGetAgentNotFound(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"00000000-0000-0000-0000-000000000001", "not-a-uuid"} {
		_, err := f.agents.GetAgent(context.Background(), id)
		requireCode(t, err, apperrors.CodeNotFound)
	}
}

func TestUpdateAgentPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := f.agent(t, "mariam@agency.test", "+225 01020304")

	updated, err := f.agents.UpdateAgent(ctx, agent.ID, AgentUpdateInput{Phone: ptr(" +225 11223344 ")})
	if err != nil {
		t.Fatalf("UpdateAgent() error = %v", err)
	}
	if updated.Phone != "+225 11223344" {
		t.Fatalf("expected trimmed phone, got %q", updated.Phone)
	}
	if updated.Email != agent.Email || updated.Surname != agent.Surname || updated.BirthYear != agent.BirthYear {
		t.Fatalf("expected untouched fields to survive, got %#v", updated)
	}

	_, err = f.agents.UpdateAgent(ctx, agent.ID, AgentUpdateInput{Email: ptr("broken")})
	requireCode(t, err, apperrors.CodeValidationFailed)

	_, err = f.agents.UpdateAgent(ctx, "00000000-0000-0000-0000-000000000009", AgentUpdateInput{Surname: ptr("Kone")})
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestUpdateAgentConflict(t *testing.T) {
	f := newFixture(t)
	first := f.agent(t, "mariam@agency.test", "+225 01020304")
	second := f.agent(t, "ali@agency.test", "+225 05060708")

	_, err := f.agents.UpdateAgent(context.Background(), second.ID, AgentUpdateInput{Email: ptr(first.Email)})
	requireCode(t, err, apperrors.CodeConflict)
}

func TestListAgentsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.agent(t, "mariam@agency.test", "+225 01020304")
	advisor, err := f.agents.CreateAgent(ctx, AgentCreateInput{
		Surname: "Traore", GivenNames: "Ali", BirthYear: 1979, Category: domain.AgentCategoryAdvisory,
		Email: "ali@agency.test", Phone: "+225 05060708",
	})
	if err != nil {
		t.Fatalf("CreateAgent() error = %v", err)
	}

	all, err := f.agents.ListAgents(ctx, AgentListFilter{})
	if err != nil {
		t.Fatalf("ListAgents() error = %v", err)
	}
	if len(all) != 2 || all[0].ID != advisor.ID {
		t.Fatalf("expected newest agent first, got %#v", all)
	}

	category := domain.AgentCategoryAdvisory
	filtered, err := f.agents.ListAgents(ctx, AgentListFilter{Category: &category})
	if err != nil {
		t.Fatalf("ListAgents(category) error = %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != advisor.ID {
		t.Fatalf("expected one advisory agent, got %#v", filtered)
	}

	searched, err := f.agents.ListAgents(ctx, AgentListFilter{Search: ptr("TRAO")})
	if err != nil {
		t.Fatalf("ListAgents(search) error = %v", err)
	}
	if len(searched) != 1 || searched[0].ID != advisor.ID {
		t.Fatalf("expected case-insensitive surname match, got %#v", searched)
	}

	paged, err := f.agents.ListAgents(ctx, AgentListFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("ListAgents(page) error = %v", err)
	}
	if len(paged) != 1 || paged[0].ID == advisor.ID {
		t.Fatalf("expected second page to hold the older agent, got %#v", paged)
	}

	bad := domain.AgentCategory("retail")
	_, err = f.agents.ListAgents(ctx, AgentListFilter{Category: &bad})
	requireCode(t, err, apperrors.CodeValidationFailed)
}

func TestDeleteAgentCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := f.agent(t, "mariam@agency.test", "+225 01020304")
	first := f.ticket(t, agent.ID)
	second := f.ticket(t, agent.ID)
	f.setStatus(t, first.ID, agent.ID, domain.TicketStatusInProgress)
	f.setStatus(t, second.ID, agent.ID, domain.TicketStatusCancelled)

	deleted, err := f.agents.DeleteAgent(ctx, agent.ID)
	if err != nil {
		t.Fatalf("DeleteAgent() error = %v", err)
	}
	if !deleted {
		t.Fatal("expected agent to be reported deleted")
	}

	for _, id := range []string{first.ID, second.ID} {
		_, err := f.tickets.GetTicket(ctx, id)
		requireCode(t, err, apperrors.CodeNotFound)
	}
	global, err := f.stats.GlobalStatistics(ctx)
	if err != nil {
		t.Fatalf("GlobalStatistics() error = %v", err)
	}
	if global.TotalAgents != 0 || global.TotalTickets != 0 {
		t.Fatalf("expected empty system, got %#v", global)
	}
	for status, count := range global.EventsByStatus {
		if count != 0 {
			t.Fatalf("expected no %s events left, got %d", status, count)
		}
	}

	deleted, err = f.agents.DeleteAgent(ctx, agent.ID)
	if err != nil || deleted {
		t.Fatalf("expected second delete to report false, got %v, %v", deleted, err)
	}
}

func TestDeleteAgentRefusesForeignEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.agent(t, "mariam@agency.test", "+225 01020304")
	helper := f.agent(t, "ali@agency.test", "+225 05060708")
	ticket := f.ticket(t, owner.ID)
	f.setStatus(t, ticket.ID, helper.ID, domain.TicketStatusInProgress)

	_, err := f.agents.DeleteAgent(ctx, helper.ID)
	requireCode(t, err, apperrors.CodeConflict)

	if _, err := f.agents.GetAgent(ctx, helper.ID); err != nil {
		t.Fatalf("expected helper to survive refused delete, got %v", err)
	}

	deleted, err := f.agents.DeleteAgent(ctx, owner.ID)
	if err != nil || !deleted {
		t.Fatalf("expected owner delete to succeed, got %v, %v", deleted, err)
	}
	deleted, err = f.agents.DeleteAgent(ctx, helper.ID)
	if err != nil || !deleted {
		t.Fatalf("expected helper delete to succeed once the ticket is gone, got %v, %v", deleted, err)
	}
}

func TestListAgentsPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		f.agent(t, fmt.Sprintf("agent%d@agency.test", i), fmt.Sprintf("010203040%d", i))
	}
	agents := NewAgentService(Dependencies{
		Store:      f.store,
		Pagination: config.PaginationConfig{DefaultLimit: 2, MaxLimit: 3},
	})

	cases := []struct {
		name   string
		filter AgentListFilter
		want   int
	}{
		{"default page", AgentListFilter{}, 2},
		{"within max", AgentListFilter{Limit: 3}, 3},
		{"clamped to max", AgentListFilter{Limit: 1000}, 3},
		{"offset", AgentListFilter{Limit: 3, Offset: 3}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := agents.ListAgents(ctx, tc.filter)
			if err != nil {
				t.Fatalf("ListAgents() error = %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("expected %d agents, got %d", tc.want, len(got))
			}
		})
	}
}

func TestListAgentsSearchAccentedNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent, err := f.agents.CreateAgent(ctx, AgentCreateInput{
		Surname:    "Éboué",
		GivenNames: "Élodie",
		BirthYear:  1988,
		Category:   domain.AgentCategoryAdvisory,
		Email:      "elodie.eboue@agency.test",
		Phone:      "0102030405",
	})
	if err != nil {
		t.Fatalf("CreateAgent() error = %v", err)
	}
	f.agent(t, "mariam@agency.test", "0102030406")

	for _, q := range []string{"Éboué", "éboué", "ÉBOUÉ", "ÉLODIE"} {
		got, err := f.agents.ListAgents(ctx, AgentListFilter{Search: &q})
		if err != nil {
			t.Fatalf("ListAgents(%q) error = %v", q, err)
		}
		if len(got) != 1 || got[0].ID != agent.ID {
			t.Fatalf("search %q: expected %s, got %#v", q, agent.ID, got)
		}
	}

	f.ticket(t, agent.ID)
	ticket, err := f.tickets.CreateTicket(ctx, TicketCreateInput{
		AgentID:         agent.ID,
		ServiceCategory: "Épargne",
		Description:     "Ouverture d'un plan d'épargne",
	})
	if err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}
	category := "ÉPARGNE"
	got, err := f.tickets.ListTickets(ctx, TicketListFilter{ServiceCategory: &category})
	if err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != ticket.ID {
		t.Fatalf("expected only the Épargne ticket, got %#v", got)
	}
}
