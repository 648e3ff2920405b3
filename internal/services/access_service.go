package services

import (
	"fmt"

	"goodsmgmt/internal/domain"
	"goodsmgmt/internal/repos"
)

// AccessService maintains the admin identity set. The owner is seeded as the
// first admin at startup; the set can never be emptied afterwards.
type AccessService struct {
	Admins *repos.AdminRepo
}

func NewAccessService(admins *repos.AdminRepo) *AccessService {
	return &AccessService{Admins: admins}
}

// SetAdmin grants or revokes admin privilege. Only a current admin may call
// it; granting to an existing admin is a no-op, as is revoking a non-admin.
// Revoking the last remaining admin fails ErrInvariantViolation.
func (s *AccessService) SetAdmin(caller, target string, isAdmin bool) error {
	ok, err := s.Admins.IsAdmin(caller)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: caller is not an admin", domain.ErrUnauthorized)
	}
	if target == "" {
		return fmt.Errorf("%w: missing target identity", domain.ErrInvalidArgument)
	}

	if isAdmin {
		return s.Admins.Grant(target, caller)
	}

	targetIsAdmin, err := s.Admins.IsAdmin(target)
	if err != nil {
		return err
	}
	if !targetIsAdmin {
		return nil
	}
	n, err := s.Admins.Count()
	if err != nil {
		return err
	}
	if n <= 1 {
		return fmt.Errorf("%w: cannot revoke the last admin", domain.ErrInvariantViolation)
	}
	_, err = s.Admins.Revoke(target)
	return err
}

// IsAdmin is a pure read; storage errors deny rather than fail.
func (s *AccessService) IsAdmin(identity string) bool {
	ok, err := s.Admins.IsAdmin(identity)
	return err == nil && ok
}

// List returns the admin set; admin-only.
func (s *AccessService) List(caller string) ([]repos.AdminRow, error) {
	if !s.IsAdmin(caller) {
		return nil, fmt.Errorf("%w: caller is not an admin", domain.ErrUnauthorized)
	}
	return s.Admins.List()
}
