package service

import (
	"errors"
	"reflect"
	"testing"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
)

func TestScopeCompany(t *testing.T) {
	super := models.AuthContext{UserID: "u1", Role: models.RoleSuperAdmin}
	regular := models.AuthContext{UserID: "u2", Role: models.RoleUser, CompanyID: "c1"}

	tests := []struct {
		name      string
		caller    models.AuthContext
		requested string
		want      string
	}{
		{name: "super admin keeps requested company", caller: super, requested: "c9", want: "c9"},
		{name: "super admin may request all companies", caller: super, requested: "", want: ""},
		{name: "regular caller pinned to own company", caller: regular, requested: "c9", want: "c1"},
		{name: "regular caller default is own company", caller: regular, requested: "", want: "c1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scopeCompany(tt.caller, tt.requested); got != tt.want {
				t.Errorf("scopeCompany() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckAccess(t *testing.T) {
	super := models.AuthContext{UserID: "u1", Role: models.RoleSuperAdmin}
	regular := models.AuthContext{UserID: "u2", Role: models.RoleUser, CompanyID: "c1"}

	if err := checkAccess(super, "c9", "project"); err != nil {
		t.Errorf("checkAccess(super) error = %v, want nil", err)
	}
	if err := checkAccess(regular, "c1", "project"); err != nil {
		t.Errorf("checkAccess(own company) error = %v, want nil", err)
	}
	if err := checkAccess(regular, "c9", "project"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("checkAccess(other company) error = %v, want forbidden", err)
	}
}

func TestTopN(t *testing.T) {
	counts := map[string]int{
		"alice": 3,
		"bob":   5,
		"carol": 3,
		"dave":  1,
	}

	got := topN(counts, 3)
	want := []NameCount{
		{Name: "bob", Count: 5},
		{Name: "alice", Count: 3},
		{Name: "carol", Count: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("topN() = %v, want %v", got, want)
	}

	if got := topN(map[string]int{}, 3); len(got) != 0 {
		t.Errorf("topN(empty) = %v, want empty", got)
	}
}
