package services

import (
	"errors"
	"fmt"

	"github.com/cloudvault/backend/internal/auth"
	"github.com/cloudvault/backend/internal/dto"
	"github.com/cloudvault/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAddressNotFound = errors.New("address not found")

type AddressService struct {
	db *gorm.DB
}

func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

// Create inserts the address; when it is marked default, every other
// address of the same user is cleared in the same transaction so at most
// one default exists per user at commit.
func (s *AddressService) Create(userID uuid.UUID, req *dto.CreateAddressRequest) (*models.Address, error) {
	country := req.Country
	if country == "" {
		country = "USA"
	}

	address := models.Address{
		ID:         uuid.New(),
		UserID:     userID,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    country,
		IsDefault:  req.IsDefault,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&models.Address{}).
				Scopes(auth.OwnedBy(userID)).
				Where("is_default = ?", true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	return &address, nil
}

// Update applies a partial update. Setting is_default clears the flag on
// the user's other addresses inside the same transaction; clearing or
// omitting it touches nothing else.
func (s *AddressService) Update(userID, addressID uuid.UUID, req *dto.UpdateAddressRequest) (*models.Address, error) {
	var address models.Address

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(auth.OwnedBy(userID)).First(&address, "id = ?", addressID).Error; err != nil {
			return ErrAddressNotFound
		}

		if req.Street != nil {
			address.Street = *req.Street
		}
		if req.City != nil {
			address.City = *req.City
		}
		if req.State != nil {
			address.State = *req.State
		}
		if req.PostalCode != nil {
			address.PostalCode = *req.PostalCode
		}
		if req.Country != nil {
			address.Country = *req.Country
		}
		if req.IsDefault != nil {
			address.IsDefault = *req.IsDefault
			if *req.IsDefault {
				if err := tx.Model(&models.Address{}).
					Scopes(auth.OwnedBy(userID)).
					Where("id <> ? AND is_default = ?", addressID, true).
					Update("is_default", false).Error; err != nil {
					return err
				}
			}
		}

		return tx.Save(&address).Error
	})
	if err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	return &address, nil
}

func (s *AddressService) List(userID uuid.UUID) ([]models.Address, error) {
	var addresses []models.Address
	if err := s.db.Scopes(auth.OwnedBy(userID)).
		Order("created_at ASC").Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

func (s *AddressService) Get(userID, addressID uuid.UUID) (*models.Address, error) {
	var address models.Address
	if err := s.db.Scopes(auth.OwnedBy(userID)).First(&address, "id = ?", addressID).Error; err != nil {
		return nil, ErrAddressNotFound
	}
	return &address, nil
}

func (s *AddressService) Delete(userID, addressID uuid.UUID) error {
	result := s.db.Scopes(auth.OwnedBy(userID)).Delete(&models.Address{}, "id = ?", addressID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete address: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAddressNotFound
	}
	return nil
}
