// Package service implements the business rules behind every resource
// endpoint: validation, company/role scoping, blocked state transitions and
// derived-field recomputation. Handlers stay thin; all rules live here.
package service

import (
	"fmt"
	"sort"
	"time"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
)

// nowUTC is stubbed in tests that assert on derived schedule values.
var nowUTC = func() time.Time { return time.Now().UTC() }

// scopeCompany resolves the company a list query runs against. Regular
// callers are pinned to their own company regardless of what they requested;
// super admins may filter by any company or none.
func scopeCompany(caller models.AuthContext, requested string) string {
	if caller.IsSuperAdmin() {
		return requested
	}
	return caller.CompanyID
}

// checkAccess returns ErrForbidden when the caller may not touch a record
// belonging to the given company.
func checkAccess(caller models.AuthContext, companyID, resource string) error {
	if !caller.CanAccessCompany(companyID) {
		return fmt.Errorf("%w: you do not have access to this %s", domain.ErrForbidden, resource)
	}
	return nil
}

// Mutation bundles a mutated record with the activity entry and optional
// notification the operation produced, all echoed in the response payload.
type Mutation[T any] struct {
	Record       T                    `json:"data"`
	Activity     *models.Activity     `json:"activity,omitempty"`
	Notification *models.Notification `json:"notification,omitempty"`
}

// NameCount is one row of a top-N ranking.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// topN sorts a derived count map descending and truncates to n entries.
// Ties break alphabetically so rankings are stable.
func topN(counts map[string]int, n int) []NameCount {
	out := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
