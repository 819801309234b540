package auth

import "github.com/labstack/echo/v4"

// identityKey is the one context key the middleware chain uses. Handlers
// never read claims directly; they work from the resolved Identity.
const identityKey = "identity"

// Identity is the immutable resolved identity of the current request. It
// is built by the authentication middleware after the session credential
// verified and its persisted token row was found active. TokenID and Key
// identify that row so logout can revoke exactly this session.
type Identity struct {
	UserID  uint64
	Name    string
	Role    string
	TokenID uint64
	Key     string
}

// SetIdentity attaches a resolved identity to the request context.
func SetIdentity(c echo.Context, id Identity) { c.Set(identityKey, id) }

// IdentityFrom returns the resolved identity of the request, if any.
// Consumers that require authentication must fail closed when ok is false
// instead of assuming anything about the caller.
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}
