package auth

import (
	apperrors "github.com/yanqian/gearbox/pkg/errors"
)

const minPasswordLength = 8

// Policy validates candidate passwords before account creation.
// The check is pure: no collaborator calls, no side effects.
type Policy struct{}

// Check rejects passwords shorter than eight characters, and mismatched
// confirmations when one is supplied.
func (Policy) Check(password, confirm string) error {
	if len(password) < minPasswordLength {
		return apperrors.Wrap("password_policy_violation", "Password must have at least eight characters.", nil)
	}
	if confirm != "" && confirm != password {
		return apperrors.Wrap("password_policy_violation", "Password confirmation does not match.", nil)
	}
	return nil
}
