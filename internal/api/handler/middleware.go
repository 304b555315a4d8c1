package handler

import (
	"context"
	"fmt"
	"strings"

	"starjar/internal/interfaces"
	"starjar/internal/models"
	"starjar/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type ctxKey string

var ctxKeyAuthUser ctxKey = "AUTH_USER"

// Authn resolves the bearer token into a user and stores it on the request
// context. It does NOT terminate unauthenticated requests; handlers that need
// a session call ResolveSession.
func Authn(verifier services.SessionVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return next(c)
			}

			user, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				// a bad token is reported without detail
				return abort(c, fmt.Errorf("%w: invalid access token", services.ErrNotAuthenticated))
			}

			ctx := context.WithValue(c.Request().Context(), ctxKeyAuthUser, user)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.Split(header, "Bearer")
	if len(parts) != 2 {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func ResolveSession(ctx context.Context) (*models.AuthUser, error) {
	user, ok := ctx.Value(ctxKeyAuthUser).(*models.AuthUser)
	if !ok {
		return nil, services.ErrNotAuthenticated
	}

	return user, nil
}

// resolveFamilyMember requires a session whose family matches the :familyId
// path param. Admins may reach into any family.
func resolveFamilyMember(c echo.Context) (*models.AuthUser, error) {
	user, err := ResolveSession(c.Request().Context())
	if err != nil {
		return nil, err
	}

	familyID := c.Param("familyId")
	if user.Role == models.RoleAdmin {
		return user, nil
	}
	if user.FamilyID == nil || *user.FamilyID != familyID {
		return nil, fmt.Errorf("%w: not a member of this family", services.ErrForbidden)
	}

	return user, nil
}

// resolveParent requires a parent or admin session. Kids can submit entries
// and request redemptions but never manage or approve.
func resolveParent(c echo.Context) (*models.AuthUser, error) {
	user, err := ResolveSession(c.Request().Context())
	if err != nil {
		return nil, err
	}

	if user.Role != models.RoleParent && user.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: parent role required", services.ErrForbidden)
	}

	return user, nil
}

// resolveParentOfResource requires a parent session whose family owns the
// row the :id route targets. Admins may mutate any family's rows; everyone
// else is refused when the row belongs to another family.
func resolveParentOfResource(c echo.Context, container *do.Injector, lookup func(ctx context.Context, own services.ResourceOwnership) (string, error)) (*models.AuthUser, error) {
	user, err := resolveParent(c)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleAdmin {
		return user, nil
	}

	own, err := do.Invoke[services.ResourceOwnership](container)
	if err != nil {
		return nil, err
	}

	familyID, err := lookup(c.Request().Context(), own)
	if err != nil {
		return nil, err
	}
	if user.FamilyID == nil || *user.FamilyID != familyID {
		return nil, fmt.Errorf("%w: not a member of this family", services.ErrForbidden)
	}

	return user, nil
}

// RateLimit throttles by client IP. Used on the credential endpoints only.
func RateLimit(l interfaces.Limiter, name string, limit redis_rate.Limit) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("%s:%s", name, c.RealIP())
			if err := l.Allow(c.Request().Context(), key, limit); err != nil {
				return abort(c, err)
			}

			return next(c)
		}
	}
}
