package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var validationNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func validAgent() Agent {
	return Agent{
		Surname:    "Diallo",
		GivenNames: "Mariam",
		BirthYear:  1990,
		Category:   AgentCategoryAdvisory,
		Email:      "mariam.diallo@agency.test",
		Phone:      "+225 (01) 02-03",
	}
}

func TestValidateAgentPhoneBounds(t *testing.T) {
	for _, phone := range []string{"01020304", "+123456789012345", "012345678901234"} {
		agent := validAgent()
		agent.Phone = phone
		if err := ValidateAgent(agent, validationNow); err != nil {
			t.Fatalf("expected %q to be accepted, got %v", phone, err)
		}
		if len(phone) > PhoneMaxLength {
			t.Fatalf("%q exceeds PhoneMaxLength %d", phone, PhoneMaxLength)
		}
	}
}

func TestValidateAgent(t *testing.T) {
	if err := ValidateAgent(validAgent(), validationNow); err != nil {
		t.Fatalf("expected valid agent, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Agent)
		field  string
	}{
		{"surname too long", func(a *Agent) { a.Surname = strings.Repeat("x", NameMaxLength+1) }, "surname"},
		{"given names too short", func(a *Agent) { a.GivenNames = "M" }, "given_names"},
		{"age 17", func(a *Agent) { a.BirthYear = validationNow.Year() - 17 }, "birth_year"},
		{"age 81", func(a *Agent) { a.BirthYear = validationNow.Year() - 81 }, "birth_year"},
		{"category", func(a *Agent) { a.Category = "retail" }, "category"},
		{"email without domain dot", func(a *Agent) { a.Email = "mariam@agency" }, "email"},
		{"email with display name", func(a *Agent) { a.Email = "Mariam <mariam@agency.test>" }, "email"},
		{"email too long", func(a *Agent) { a.Email = strings.Repeat("m", EmailMaxLength) + "@agency.test" }, "email"},
		{"phone letters", func(a *Agent) { a.Phone = "+225 abc 0102" }, "phone"},
		{"phone too short", func(a *Agent) { a.Phone = "0102030" }, "phone"},
		{"phone too long", func(a *Agent) { a.Phone = "0102030405060708" }, "phone"},
		{"phone too long with plus", func(a *Agent) { a.Phone = "+1234567890123456" }, "phone"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agent := validAgent()
			tc.mutate(&agent)
			err := ValidateAgent(agent, validationNow)
			var fields FieldErrors
			if !errors.As(err, &fields) {
				t.Fatalf("expected FieldErrors, got %v", err)
			}
			if _, ok := fields[tc.field]; !ok {
				t.Fatalf("expected failure on %s, got %v", tc.field, fields)
			}
		})
	}
}

func TestValidateAgentAgeBounds(t *testing.T) {
	for _, age := range []int{MinAgentAge, MaxAgentAge} {
		agent := validAgent()
		agent.BirthYear = validationNow.Year() - age
		if err := ValidateAgent(agent, validationNow); err != nil {
			t.Fatalf("expected age %d to be accepted, got %v", age, err)
		}
	}
}

func TestValidateTicket(t *testing.T) {
	ticket := Ticket{ServiceCategory: "Loans", Description: "Review the application"}
	if err := ValidateTicket(ticket); err != nil {
		t.Fatalf("expected valid ticket, got %v", err)
	}
	ticket.ServiceCategory = "ab"
	ticket.Description = strings.Repeat("d", DescriptionMaxLength+1)
	err := ValidateTicket(ticket)
	var fields FieldErrors
	if !errors.As(err, &fields) || len(fields) != 2 {
		t.Fatalf("expected two field failures, got %v", err)
	}
	if got := err.Error(); got != "invalid fields: description: must be between 10 and 500 characters; service_category: must be between 3 and 50 characters" {
		t.Fatalf("unexpected message %q", got)
	}
}
