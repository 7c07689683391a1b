package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/agencydesk/agency-tickets/pkg/util/errorutil"
)

const dateLayout = "2006-01-02"

// pageParams reads skip and limit. An absent limit is returned as zero,
// which the services replace with the default page size.
func pageParams(c *fiber.Ctx) (limit, offset int, err error) {
	if offset, err = nonNegativeInt(c, "skip"); err != nil {
		return 0, 0, err
	}
	if limit, err = nonNegativeInt(c, "limit"); err != nil {
		return 0, 0, err
	}
	if limit == 0 && strings.TrimSpace(c.Query("limit")) != "" {
		return 0, 0, apperrors.NewValidationError("invalid query parameter",
			map[string]any{"limit": "must be at least 1"})
	}
	return limit, offset, nil
}

func nonNegativeInt(c *fiber.Ctx, key string) (int, error) {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return 0, apperrors.NewValidationError("invalid query parameter",
			map[string]any{key: "must be a non-negative integer"})
	}
	return parsed, nil
}

// optionalQuery returns nil for absent or blank parameters.
func optionalQuery(c *fiber.Ctx, key string) *string {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil
	}
	return &val
}

// dateQuery accepts RFC 3339 timestamps or bare dates. A bare date used as an
// upper bound covers the whole day.
func dateQuery(c *fiber.Ctx, key string, upperBound bool) (*time.Time, error) {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, val); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(dateLayout, val)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid query parameter",
			map[string]any{key: "must be YYYY-MM-DD or an RFC 3339 timestamp"})
	}
	if upperBound {
		t = t.Add(24*time.Hour - time.Microsecond)
	}
	return &t, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"body": err.Error()})
	}
	return nil
}
