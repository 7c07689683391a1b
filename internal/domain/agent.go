package domain

import "time"

// AgentCategory enumerates the business line an agent works in.
type AgentCategory string

const (
	AgentCategoryTransaction AgentCategory = "transaction"
	AgentCategoryAdvisory    AgentCategory = "advisory"
)

// AgentCategories lists every category.
var AgentCategories = []AgentCategory{AgentCategoryTransaction, AgentCategoryAdvisory}

// Valid reports whether c is a known category.
func (c AgentCategory) Valid() bool {
	return c == AgentCategoryTransaction || c == AgentCategoryAdvisory
}

// Agent is a staff member who owns tickets and records status events.
type Agent struct {
	ID           string
	Surname      string
	GivenNames   string
	BirthYear    int
	Category     AgentCategory
	Email        string
	Phone        string
	RegisteredAt time.Time
}

// FullName renders given names followed by surname.
func (a Agent) FullName() string {
	return a.GivenNames + " " + a.Surname
}

// AgeAt returns the derived age for the year of now.
func (a Agent) AgeAt(now time.Time) int {
	return now.Year() - a.BirthYear
}
