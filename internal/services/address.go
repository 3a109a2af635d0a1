package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloudscale_back_end/internal/database"
	"cloudscale_back_end/internal/models"
)

type AddressInput struct {
	Type      string `json:"type" binding:"omitempty,oneof=shipping billing"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	ZipCode   string `json:"zipCode" binding:"required"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
}

func (in AddressInput) apply(a *models.Address) error {
	a.Type = strings.TrimSpace(in.Type)
	if a.Type == "" {
		a.Type = models.AddressShipping
	}
	if a.Type != models.AddressShipping && a.Type != models.AddressBilling {
		return fmt.Errorf("%w: type d'adresse %q", ErrValidation, a.Type)
	}

	a.Street = strings.TrimSpace(in.Street)
	a.City = strings.TrimSpace(in.City)
	a.State = strings.TrimSpace(in.State)
	a.ZipCode = strings.TrimSpace(in.ZipCode)
	if a.Street == "" || a.City == "" || a.State == "" || a.ZipCode == "" {
		return fmt.Errorf("%w: adresse incomplète", ErrValidation)
	}

	a.Country = strings.TrimSpace(in.Country)
	if a.Country == "" {
		a.Country = models.DefaultCountry
	}
	a.IsDefault = in.IsDefault
	return nil
}

type AddressService struct {
	addresses database.AddressStore
}

func NewAddressService(addresses database.AddressStore) *AddressService {
	return &AddressService{addresses: addresses}
}

func (s *AddressService) List(ctx context.Context, userID int64) ([]models.Address, error) {
	return s.addresses.ListAddresses(ctx, userID)
}

// Owned renvoie ErrNotFound aussi pour l'adresse d'un autre utilisateur
func (s *AddressService) Owned(ctx context.Context, userID, addressID int64) (*models.Address, error) {
	a, err := s.addresses.GetAddress(ctx, addressID)
	if errors.Is(err, database.ErrNotFound) || (err == nil && a.UserID != userID) {
		return nil, fmt.Errorf("%w: adresse %d", ErrNotFound, addressID)
	}
	return a, err
}

// Create: la première adresse de l'utilisateur devient l'adresse par défaut
func (s *AddressService) Create(ctx context.Context, userID int64, in AddressInput) (*models.Address, error) {
	a := &models.Address{UserID: userID}
	if err := in.apply(a); err != nil {
		return nil, err
	}

	existing, err := s.addresses.ListAddresses(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		a.IsDefault = true
	}
	if err := s.addresses.CreateAddress(ctx, a); err != nil {
		return nil, err
	}
	if a.IsDefault {
		if err := s.clearOtherDefaults(ctx, userID, a.ID); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (s *AddressService) Update(ctx context.Context, userID, addressID int64, in AddressInput) (*models.Address, error) {
	a, err := s.Owned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	wasDefault := a.IsDefault
	if err := in.apply(a); err != nil {
		return nil, err
	}
	// une adresse par défaut le reste tant qu'une autre ne la remplace pas
	a.IsDefault = a.IsDefault || wasDefault
	if err := s.addresses.UpdateAddress(ctx, a); err != nil {
		return nil, err
	}
	if a.IsDefault && !wasDefault {
		if err := s.clearOtherDefaults(ctx, userID, a.ID); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// SetDefault désigne l'adresse par défaut de l'utilisateur
func (s *AddressService) SetDefault(ctx context.Context, userID, addressID int64) (*models.Address, error) {
	a, err := s.Owned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	if !a.IsDefault {
		a.IsDefault = true
		if err := s.addresses.UpdateAddress(ctx, a); err != nil {
			return nil, err
		}
	}
	if err := s.clearOtherDefaults(ctx, userID, a.ID); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AddressService) Delete(ctx context.Context, userID, addressID int64) error {
	if _, err := s.Owned(ctx, userID, addressID); err != nil {
		return err
	}
	return s.addresses.DeleteAddress(ctx, addressID)
}

func (s *AddressService) clearOtherDefaults(ctx context.Context, userID, keepID int64) error {
	all, err := s.addresses.ListAddresses(ctx, userID)
	if err != nil {
		return err
	}
	for _, other := range all {
		if other.ID == keepID || !other.IsDefault {
			continue
		}
		other.IsDefault = false
		if err := s.addresses.UpdateAddress(ctx, &other); err != nil {
			return err
		}
	}
	return nil
}
