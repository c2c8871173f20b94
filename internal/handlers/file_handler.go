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

type FileHandler struct {
	fileService *services.FileService
}

func NewFileHandler(fileService *services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Upload accepts a multipart form with a "file" field and an optional
// "file_type" value.
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorizedResponse(c)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Missing file field",
			Fields: map[string]string{"file": "this field is required"},
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Unreadable file payload",
		})
	}
	defer src.Close()

	declaredType := c.FormValue("file_type")
	contentType := fileHeader.Header.Get(fiber.HeaderContentType)

	file, err := h.fileService.Upload(c.Context(), userID,
		fileHeader.Filename, declaredType, src, fileHeader.Size, contentType)
	if err != nil {
		if errors.Is(err, services.ErrUploadFailed) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fileToResponse(file))
}

func (h *FileHandler) List(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorizedResponse(c)
	}

	files, err := h.fileService.List(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	resp := make([]dto.FileResponse, 0, len(files))
	for i := range files {
		resp = append(resp, fileToResponse(&files[i]))
	}
	return c.JSON(resp)
}

func (h *FileHandler) Get(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorizedResponse(c)
	}

	fileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFoundResponse(c, "File not found")
	}

	file, err := h.fileService.Get(userID, fileID)
	if err != nil {
		return notFoundResponse(c, "File not found")
	}

	return c.JSON(fileToResponse(file))
}

func (h *FileHandler) Delete(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorizedResponse(c)
	}

	fileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFoundResponse(c, "File not found")
	}

	if err := h.fileService.Delete(c.Context(), userID, fileID); err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			return notFoundResponse(c, "File not found")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func fileToResponse(file *models.UploadedFile) dto.FileResponse {
	return dto.FileResponse{
		ID:         file.ID,
		Filename:   file.Filename,
		FileType:   file.FileType,
		FileSize:   file.FileSize,
		FileURL:    file.FileURL,
		UploadDate: file.UploadDate,
	}
}

func unauthorizedResponse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func notFoundResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}
