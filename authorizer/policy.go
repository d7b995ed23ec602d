package authorizer

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/kbukum/apiadapter/errors"
)

// Policy decides which response statuses are authorization failures.
type Policy struct {
	Statuses []int
}

// DefaultPolicy treats only 401 Unauthorized as a failure.
func DefaultPolicy() Policy {
	return Policy{Statuses: []int{http.StatusUnauthorized}}
}

// StrictPolicy treats 401 Unauthorized and 403 Forbidden as failures.
func StrictPolicy() Policy {
	return Policy{Statuses: []int{http.StatusUnauthorized, http.StatusForbidden}}
}

// NewPolicy builds a Policy from configured statuses. An empty list yields
// DefaultPolicy. Every status must be a 4xx code.
func NewPolicy(statuses ...int) (Policy, error) {
	if len(statuses) == 0 {
		return DefaultPolicy(), nil
	}
	for _, s := range statuses {
		if s < 400 || s > 499 {
			return Policy{}, errors.Configuration("auth.failure_statuses",
				fmt.Sprintf("must contain 4xx status codes (got %d)", s))
		}
	}
	out := slices.Clone(statuses)
	slices.Sort(out)
	return Policy{Statuses: slices.Compact(out)}, nil
}

// IsAuthorizationFailure implements the status half of Authorizer.
func (p Policy) IsAuthorizationFailure(statusCode int) bool {
	return slices.Contains(p.Statuses, statusCode)
}
