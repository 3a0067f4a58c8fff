package principal

import (
	"context"
	"strconv"
	"strings"
)

// Principal is the authenticated identity making a request. Admin is
// normalized exactly once, when the principal is established at the
// trust boundary; downstream code never re-interprets the claim.
type Principal struct {
	ID    string
	Admin bool
}

// NormalizeAdmin folds the loosely-typed admin claim shapes seen in
// tokens (true, "true", "1", 1) into a single bool.
func NormalizeAdmin(claim any) bool {
	switch v := claim.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	case float64:
		return v == 1
	case int:
		return v == 1
	default:
		return false
	}
}

// contextKey avoids collisions with other packages' context values.
type contextKey string

const principalKey contextKey = "principal"

// FromContext returns the request principal, or nil when the request
// is unauthenticated.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}

func NewContext(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
