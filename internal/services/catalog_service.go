package services

import (
	"database/sql"
	"errors"
	"fmt"

	"goodsmgmt/internal/domain"
	"goodsmgmt/internal/repos"
	"goodsmgmt/internal/validate"
)

// ItemPatch carries the optional fields of an update; nil means unchanged.
type ItemPatch struct {
	Price       *uint64
	Stock       *uint64
	Description *string
}

type CatalogService struct {
	Access *AccessService
	Items  *repos.CatalogRepo
}

func NewCatalogService(access *AccessService, items *repos.CatalogRepo) *CatalogService {
	return &CatalogService{Access: access, Items: items}
}

// AddItem creates a catalog entry and returns its id. Admin-only.
func (s *CatalogService) AddItem(caller, name, description string, price, stock uint64) (uint64, error) {
	if !s.Access.IsAdmin(caller) {
		return 0, fmt.Errorf("%w: catalog mutation requires admin", domain.ErrUnauthorized)
	}
	name, ok := validate.Name(name)
	if !ok {
		return 0, fmt.Errorf("%w: name must be 1-100 characters", domain.ErrInvalidArgument)
	}
	description, ok = validate.Description(description)
	if !ok {
		return 0, fmt.Errorf("%w: description too long", domain.ErrInvalidArgument)
	}
	if !validate.Amount(price) || !validate.Amount(stock) {
		return 0, fmt.Errorf("%w: price/stock out of range", domain.ErrInvalidArgument)
	}
	return s.Items.Insert(name, description, price, stock)
}

// UpdateItem applies the provided fields; omitted fields are unchanged.
// Admin-only.
func (s *CatalogService) UpdateItem(caller string, id uint64, patch ItemPatch) error {
	if !s.Access.IsAdmin(caller) {
		return fmt.Errorf("%w: catalog mutation requires admin", domain.ErrUnauthorized)
	}
	if patch.Price == nil && patch.Stock == nil && patch.Description == nil {
		return fmt.Errorf("%w: no fields to update", domain.ErrInvalidArgument)
	}
	if patch.Price != nil && !validate.Amount(*patch.Price) {
		return fmt.Errorf("%w: price out of range", domain.ErrInvalidArgument)
	}
	if patch.Stock != nil && !validate.Amount(*patch.Stock) {
		return fmt.Errorf("%w: stock out of range", domain.ErrInvalidArgument)
	}
	if patch.Description != nil {
		d, ok := validate.Description(*patch.Description)
		if !ok {
			return fmt.Errorf("%w: description too long", domain.ErrInvalidArgument)
		}
		patch.Description = &d
	}
	err := s.Items.Update(id, patch.Price, patch.Stock, patch.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: item %d", domain.ErrNotFound, id)
	}
	return err
}

// RemoveItem marks the item unavailable. The row stays so ledger history
// referencing the id keeps resolving. Admin-only.
func (s *CatalogService) RemoveItem(caller string, id uint64) error {
	if !s.Access.IsAdmin(caller) {
		return fmt.Errorf("%w: catalog mutation requires admin", domain.ErrUnauthorized)
	}
	err := s.Items.MarkUnavailable(id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: item %d", domain.ErrNotFound, id)
	}
	return err
}

// GetItem resolves any known id, removed items included.
func (s *CatalogService) GetItem(id uint64) (domain.Item, error) {
	it, err := s.Items.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, fmt.Errorf("%w: item %d", domain.ErrNotFound, id)
	}
	return it, err
}

// ListItems returns available items in insertion order, optionally filtered
// by a name/description keyword.
func (s *CatalogService) ListItems(q string, page, pageSize int) ([]domain.Item, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.Items.ListAvailable(q, pageSize, offset)
}

// Availability maps stock to IN_STOCK / LOW_STOCK / OUT_OF_STOCK. Unknown
// and removed items read as out of stock.
func (s *CatalogService) Availability(id uint64) (domain.Availability, error) {
	it, err := s.Items.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Availability{Status: "OUT_OF_STOCK"}, nil
	}
	if err != nil {
		return domain.Availability{}, err
	}
	if !it.Available {
		return domain.Availability{Status: "OUT_OF_STOCK"}, nil
	}
	status := "OUT_OF_STOCK"
	switch {
	case it.Stock >= 5:
		status = "IN_STOCK"
	case it.Stock > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: it.Stock}, nil
}
