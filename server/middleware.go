package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/marketpoint/marketpoint"
)

// Protected returns the session middleware. It extracts the bearer token,
// validates it, and stores the claims in the request locals under the
// configured context key. The claims are also propagated to the request's
// user context so command handlers can reach them.
func Protected(cfg marketpoint.Config, tokens marketpoint.TokenService) fiber.Handler {
	scheme := cfg.GetAuthScheme()
	contextKey := cfg.GetContextKey()

	return func(c *fiber.Ctx) error {
		raw, err := extractToken(c, scheme)
		if err != nil {
			return err
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			return classifyTokenError(err)
		}

		c.Locals(contextKey, claims)
		c.SetUserContext(marketpoint.WithClaimsContext(c.UserContext(), claims))

		return c.Next()
	}
}

func classifyTokenError(err error) error {
	if marketpoint.IsTokenExpiredError(err) {
		return marketpoint.ErrTokenExpired
	}
	if marketpoint.IsMalformedError(err) {
		return marketpoint.ErrTokenMalformed
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}
	return goerrors.Wrap(err, goerrors.CategoryAuth, "Invalid authentication token").
		WithCode(goerrors.CodeUnauthorized)
}

func extractToken(c *fiber.Ctx, scheme string) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", marketpoint.ErrUnableToFindSession
	}

	if scheme == "" {
		return header, nil
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) || parts[1] == "" {
		return "", marketpoint.ErrUnableToDecodeSession
	}

	return parts[1], nil
}

// SessionClaims returns the claims the middleware stored for this request.
func SessionClaims(c *fiber.Ctx, contextKey string) (marketpoint.AuthClaims, error) {
	claims, ok := marketpoint.GetLocalClaims(c, contextKey)
	if !ok {
		return nil, marketpoint.ErrUnableToFindSession
	}
	return claims, nil
}

// SessionUserID resolves the authenticated user's id from the request.
func SessionUserID(c *fiber.Ctx, contextKey string) (uuid.UUID, error) {
	claims, err := SessionClaims(c, contextKey)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryAuth, "invalid session subject").
			WithCode(goerrors.CodeUnauthorized)
	}

	return id, nil
}
