package authz

import (
	apperrors "protocol-system/pkg/errors"
)

// Require returns ErrForbidden unless caps grants capability.
func Require(caps Capabilities, capability Capability) error {
	if caps.Has(capability) {
		return nil
	}
	return apperrors.ErrForbidden
}
