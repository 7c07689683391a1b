package persistence

import (
	"io/fs"
	"regexp"
	"strconv"
	"testing"

	"github.com/agencydesk/agency-tickets/internal/domain"
)

var phoneWidth = regexp.MustCompile(`(?i)\bphone\b[^;\n]*VARCHAR\((\d+)\)`)

// The last migration touching agents.phone decides the column width.
func TestMigrationsFitLongestPhone(t *testing.T) {
	names, err := migrationNames()
	if err != nil {
		t.Fatalf("migrationNames() error = %v", err)
	}

	width := 0
	for _, name := range names {
		content, err := fs.ReadFile(migrationFiles, migrationsDir+"/"+name)
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", name, err)
		}
		for _, m := range phoneWidth.FindAllStringSubmatch(string(content), -1) {
			width, _ = strconv.Atoi(m[1])
		}
	}
	if width < domain.PhoneMaxLength {
		t.Fatalf("phone column is VARCHAR(%d), validation accepts %d characters", width, domain.PhoneMaxLength)
	}
}

func TestMigrationNamesOrdered(t *testing.T) {
	names, err := migrationNames()
	if err != nil {
		t.Fatalf("migrationNames() error = %v", err)
	}
	want := []string{"001_init.sql", "002_status_events.sql", "003_widen_agent_phone.sql"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}
