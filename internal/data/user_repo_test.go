package data

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
)

func TestUserRowRoleNormalization(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   domainauth.Role
	}{
		{"admin passes through", "admin", domainauth.RoleAdmin},
		{"staff passes through", "staff", domainauth.RoleStaff},
		{"user passes through", "user", domainauth.RoleUser},
		{"guest passes through", "guest", domainauth.RoleGuest},
		{"retired role maps to unknown", "superuser", domainauth.RoleUnknown},
		{"empty column stays absent", "", domainauth.RoleAbsent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			row := userRow{Role: tc.stored}
			assert.Equal(t, tc.want, row.role())
		})
	}
}
