package handler

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"formsapi/internal/service"
)

// maxUploadSize caps attachment uploads at 5MB.
const maxUploadSize = 5 << 20

// fileUploadFromForm reads the optional attachment from the named multipart
// field and validates size and content type. A missing field is not an error:
// it returns (nil, nil, nil).
func fileUploadFromForm(c *fiber.Ctx, field string) (*service.FileUpload, multipart.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil, nil
	}

	if fh.Size > maxUploadSize {
		return nil, nil, errors.New("image exceeds the 5MB limit")
	}

	ct := fh.Header.Get("Content-Type")
	if !allowedImageType(ct, fh.Filename) {
		return nil, nil, errors.New("image must be a jpg, jpeg or png file")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, errors.New("cannot open uploaded file")
	}

	return &service.FileUpload{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
	}, f, nil
}

func allowedImageType(contentType, filename string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png":
		return true
	}
	if contentType != "" && contentType != "application/octet-stream" {
		return false
	}
	// Fall back to the extension when the client sent no usable content type.
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func formIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id format")
	}
	return id, nil
}

// CreateForm handles POST /forms. The body is multipart/form-data with
// user_uuid, procedure_type, optional diagnosis and an optional image file.
func CreateForm(svc service.FormService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userUUID := c.FormValue("user_uuid")
		if _, err := uuid.Parse(userUUID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "invalid user_uuid format")
		}

		in := service.CreateFormInput{
			UserUUID:      userUUID,
			ProcedureType: c.FormValue("procedure_type"),
		}
		if v := c.FormValue("diagnosis"); v != "" {
			in.Diagnosis = &v
		}

		file, src, err := fileUploadFromForm(c, "image")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		}
		if src != nil {
			defer src.Close()
		}

		form, err := svc.Create(c.UserContext(), in, file)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(form)
	}
}

// ListForms handles GET /forms. Attachment references come back as signed URLs.
func ListForms(svc service.FormService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		forms, err := svc.FindAll(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(forms)
	}
}

// GetForm handles GET /forms/:id.
func GetForm(svc service.FormService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := formIDParam(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		}
		form, err := svc.FindOne(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(form)
	}
}

// UpdateForm handles PATCH /forms/:id. Patch fields arrive as multipart values;
// a replacement attachment uses the "file" field.
func UpdateForm(svc service.FormService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := formIDParam(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		}

		var in service.UpdateFormInput
		if v := c.FormValue("procedure_type"); v != "" {
			in.ProcedureType = &v
		}
		if v := c.FormValue("diagnosis"); v != "" {
			in.Diagnosis = &v
		}

		file, src, err := fileUploadFromForm(c, "file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		}
		if src != nil {
			defer src.Close()
		}

		form, err := svc.Update(c.UserContext(), id, in, file)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(form)
	}
}

// DeleteForm handles DELETE /forms/:id.
func DeleteForm(svc service.FormService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := formIDParam(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		}
		msg, err := svc.Remove(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": msg})
	}
}
