package services

import (
	"fmt"

	"goodsmgmt/internal/domain"
	"goodsmgmt/internal/repos"
	"goodsmgmt/internal/validate"
)

type LedgerService struct {
	Access *AccessService
	Ledger *repos.LedgerRepo
}

func NewLedgerService(access *AccessService, ledger *repos.LedgerRepo) *LedgerService {
	return &LedgerService{Access: access, Ledger: ledger}
}

// History returns purchase records in append order. buyer and itemID filter
// when non-zero. Public read.
func (s *LedgerService) History(buyer string, itemID uint64, page, pageSize int) ([]domain.PurchaseRecord, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize
	return s.Ledger.History(buyer, itemID, pageSize, offset)
}

// Balance returns the amount owed to the owner; admin-only.
func (s *LedgerService) Balance(caller string) (uint64, error) {
	if !s.Access.IsAdmin(caller) {
		return 0, fmt.Errorf("%w: balance is admin-only", domain.ErrUnauthorized)
	}
	return s.Ledger.Balance()
}

// Withdraw moves amount out of the balance owed. Admin-only; the guarded
// update keeps balance == sum(amount_paid) - sum(withdrawals) and >= 0.
func (s *LedgerService) Withdraw(caller string, amount uint64) error {
	if !s.Access.IsAdmin(caller) {
		return fmt.Errorf("%w: withdraw is admin-only", domain.ErrUnauthorized)
	}
	if amount == 0 || !validate.Amount(amount) {
		return fmt.Errorf("%w: withdrawal amount out of range", domain.ErrInvalidArgument)
	}
	ok, err := s.Ledger.Withdraw(amount)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: amount exceeds balance owed", domain.ErrInvalidArgument)
	}
	return nil
}
