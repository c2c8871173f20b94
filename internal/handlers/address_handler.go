package handlers

import (
	"errors"

	"github.com/cloudvault/backend/internal/auth"
	"github.com/cloudvault/backend/internal/dto"
	"github.com/cloudvault/backend/internal/models"
	"github.com/cloudvault/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AddressHandler struct {
	addressService *services.AddressService
}

func NewAddressHandler(addressService *services.AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService}
}

func (h *AddressHandler) Create(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorizedResponse(c)
	}

	var req dto.CreateAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Validation failed", Fields: validationFields(err),
		})
	}

	address, err := h.addressService.Create(userID, &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(addressToResponse(address))
}

func (h *AddressHandler) List(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorizedResponse(c)
	}

	addresses, err := h.addressService.List(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	resp := make([]dto.AddressResponse, 0, len(addresses))
	for i := range addresses {
		resp = append(resp, addressToResponse(&addresses[i]))
	}
	return c.JSON(resp)
}

func (h *AddressHandler) Get(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorizedResponse(c)
	}

	addressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFoundResponse(c, "Address not found")
	}

	address, err := h.addressService.Get(userID, addressID)
	if err != nil {
		return notFoundResponse(c, "Address not found")
	}

	return c.JSON(addressToResponse(address))
}

func (h *AddressHandler) Update(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorizedResponse(c)
	}

	addressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFoundResponse(c, "Address not found")
	}

	var req dto.UpdateAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Validation failed", Fields: validationFields(err),
		})
	}

	address, err := h.addressService.Update(userID, addressID, &req)
	if err != nil {
		if errors.Is(err, services.ErrAddressNotFound) {
			return notFoundResponse(c, "Address not found")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(addressToResponse(address))
}

func (h *AddressHandler) Delete(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorizedResponse(c)
	}

	addressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFoundResponse(c, "Address not found")
	}

	if err := h.addressService.Delete(userID, addressID); err != nil {
		if errors.Is(err, services.ErrAddressNotFound) {
			return notFoundResponse(c, "Address not found")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func addressToResponse(address *models.Address) dto.AddressResponse {
	return dto.AddressResponse{
		ID:         address.ID,
		Street:     address.Street,
		City:       address.City,
		State:      address.State,
		PostalCode: address.PostalCode,
		Country:    address.Country,
		IsDefault:  address.IsDefault,
	}
}
