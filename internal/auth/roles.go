package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/agencydesk/agency-tickets/pkg/util/errorutil"
)

// Role grants access to a class of routes.
type Role string

const (
	// RoleViewer may call read endpoints.
	RoleViewer Role = "viewer"
	// RoleOperator may also create, update and delete.
	RoleOperator Role = "operator"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleViewer || r == RoleOperator
}

// RequireRole ensures the principal has one of the allowed roles.
func RequireRole(allowed ...Role) fiber.Handler {
	allowedSet := make(map[Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireWriteAccess lets safe methods through and demands the operator
// role for everything else.
func RequireWriteAccess() fiber.Handler {
	operator := RequireRole(RoleOperator)
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		return operator(c)
	}
}
