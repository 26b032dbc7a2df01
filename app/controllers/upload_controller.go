package controllers

import (
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/eventlyhq/evently/internal/pkg/storage"
	"github.com/eventlyhq/evently/internal/pkg/upload"
)

// HandleImageUpload stores an event image in the S3 bucket and returns its
// public URL for the event form to embed.
func HandleImageUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing file"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Could not read file"})
	}
	defer file.Close()

	head := make([]byte, 512)
	n, _ := file.Read(head)
	if _, err := file.Seek(0, 0); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not read file"})
	}

	mime, err := upload.ValidateImage(fileHeader.Filename, head[:n], fileHeader.Size)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid_file", "message": err.Error()})
	}

	uploader, err := storage.GetUploader()
	if err != nil {
		log.Errorf("uploader unavailable: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Storage unavailable"})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	key := "events/" + uuid.NewString() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	url, err := uploader.UploadImage(ctx, key, mime, file)
	if err != nil {
		log.Errorf("image upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Upload failed"})
	}

	return c.JSON(fiber.Map{"url": url})
}
