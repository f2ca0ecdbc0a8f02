package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/gearbox/pkg/errors"
)

func TestPolicy_Check(t *testing.T) {
	var policy Policy

	tests := []struct {
		name     string
		password string
		confirm  string
		wantMsg  string
	}{
		{name: "accepts eight characters", password: "pass1234"},
		{name: "accepts long password with matching confirm", password: "ValidPass123!", confirm: "ValidPass123!"},
		{name: "rejects short password", password: "short", confirm: "short", wantMsg: "Password must have at least eight characters."},
		{name: "rejects seven characters", password: "1234567", wantMsg: "Password must have at least eight characters."},
		{name: "rejects mismatched confirm", password: "ValidPass123!", confirm: "OtherPass123!", wantMsg: "Password confirmation does not match."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := policy.Check(tc.password, tc.confirm)
			if tc.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, "password_policy_violation"))
			require.Equal(t, tc.wantMsg, err.Error())
		})
	}
}

func TestPolicy_CheckIsIdempotent(t *testing.T) {
	var policy Policy

	first := policy.Check("short", "short")
	second := policy.Check("short", "short")
	require.Error(t, first)
	require.Error(t, second)
	require.Equal(t, first.Error(), second.Error())
}
