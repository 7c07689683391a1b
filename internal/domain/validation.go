package domain

import (
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Field bounds for agent and ticket attributes.
const (
	NameMinLength            = 2
	NameMaxLength            = 50
	EmailMaxLength           = 100
	ServiceCategoryMinLength = 3
	ServiceCategoryMaxLength = 50
	DescriptionMinLength     = 10
	DescriptionMaxLength     = 500
	MinAgentAge              = 18
	MaxAgentAge              = 80
	// PhoneMaxLength is the longest value phonePattern accepts: '+' and 15 characters.
	PhoneMaxLength = 16
)

var phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{8,15}$`)

// FieldErrors maps a field name to the reason its value was rejected.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+f[field])
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

// Add records a failure for field. The first failure per field wins.
func (f FieldErrors) Add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

// Err returns nil when no failures were recorded.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

// CheckLength validates the rune length of value.
func (f FieldErrors) CheckLength(field, value string, min, max int) {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		f.Add(field, fmt.Sprintf("must be between %d and %d characters", min, max))
	}
}

// CheckBirthYear validates the derived age against now.
func (f FieldErrors) CheckBirthYear(field string, birthYear int, now time.Time) {
	age := now.Year() - birthYear
	if age < MinAgentAge || age > MaxAgentAge {
		f.Add(field, fmt.Sprintf("derived age must be between %d and %d", MinAgentAge, MaxAgentAge))
	}
}

// CheckEmail validates a bare email address.
func (f FieldErrors) CheckEmail(field, value string) {
	if utf8.RuneCountInString(value) > EmailMaxLength {
		f.Add(field, fmt.Sprintf("must be at most %d characters", EmailMaxLength))
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(value[strings.LastIndex(value, "@")+1:], ".") {
		f.Add(field, "must be a valid email address")
	}
}

// CheckPhone validates the phone number pattern.
func (f FieldErrors) CheckPhone(field, value string) {
	if !phonePattern.MatchString(value) {
		f.Add(field, "must be 8 to 15 digits, spaces, dashes or parentheses with an optional leading +")
	}
}

// CheckCategory validates an agent category.
func (f FieldErrors) CheckCategory(field string, category AgentCategory) {
	if !category.Valid() {
		f.Add(field, "must be one of transaction, advisory")
	}
}

// ValidateAgent checks every attribute of a new agent.
func ValidateAgent(agent Agent, now time.Time) error {
	errs := FieldErrors{}
	errs.CheckLength("surname", agent.Surname, NameMinLength, NameMaxLength)
	errs.CheckLength("given_names", agent.GivenNames, NameMinLength, NameMaxLength)
	errs.CheckBirthYear("birth_year", agent.BirthYear, now)
	errs.CheckCategory("category", agent.Category)
	errs.CheckEmail("email", agent.Email)
	errs.CheckPhone("phone", agent.Phone)
	return errs.Err()
}

// ValidateTicket checks the free-text attributes of a ticket.
func ValidateTicket(ticket Ticket) error {
	errs := FieldErrors{}
	errs.CheckLength("service_category", ticket.ServiceCategory, ServiceCategoryMinLength, ServiceCategoryMaxLength)
	errs.CheckLength("description", ticket.Description, DescriptionMinLength, DescriptionMaxLength)
	return errs.Err()
}
