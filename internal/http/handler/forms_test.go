package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"formsapi/internal/model"
	"formsapi/internal/service"
	serviceMocks "formsapi/internal/service/mocks"
)

func strPtr(s string) *string { return &s }

// multipartBody builds a multipart form with the given values and an optional
// file part.
func multipartBody(t *testing.T, values map[string]string, fileField, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range values {
		writer.WriteField(k, v)
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		part.Write(content)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestCreateForm(t *testing.T) {
	mockSvc := new(serviceMocks.MockFormService)
	app := fiber.New(fiber.Config{BodyLimit: 10 << 20})
	app.Post("/forms", CreateForm(mockSvc))

	ownerID := uuid.New().String()

	t.Run("success without file", func(t *testing.T) {
		expected := &model.Form{ID: 1, UserUUID: ownerID, ProcedureType: "X"}
		in := service.CreateFormInput{UserUUID: ownerID, ProcedureType: "X"}
		mockSvc.On("Create", mock.Anything, in, (*service.FileUpload)(nil)).Return(expected, nil).Once()

		body, ct := multipartBody(t, map[string]string{
			"user_uuid":      ownerID,
			"procedure_type": "X",
		}, "", "", nil)

		req := httptest.NewRequest(http.MethodPost, "/forms", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Form
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, int64(1), result.ID)
		assert.Nil(t, result.Image)
		mockSvc.AssertExpectations(t)
	})

	t.Run("success with file and diagnosis", func(t *testing.T) {
		expected := &model.Form{ID: 2, UserUUID: ownerID, ProcedureType: "X", Diagnosis: strPtr("benign"), Image: strPtr(ownerID + "/2-duck.jpg")}
		in := service.CreateFormInput{UserUUID: ownerID, ProcedureType: "X", Diagnosis: strPtr("benign")}
		mockSvc.On("Create", mock.Anything, in, mock.AnythingOfType("*service.FileUpload")).Return(expected, nil).Once()

		body, ct := multipartBody(t, map[string]string{
			"user_uuid":      ownerID,
			"procedure_type": "X",
			"diagnosis":      "benign",
		}, "image", "duck.jpg", []byte("jpegbytes"))

		req := httptest.NewRequest(http.MethodPost, "/forms", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Form
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, int64(2), result.ID)
		assert.NotNil(t, result.Image)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid user_uuid", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{
			"user_uuid":      "not-a-uuid",
			"procedure_type": "X",
		}, "", "", nil)

		req := httptest.NewRequest(http.MethodPost, "/forms", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_FAILED", res.Error.Code)
	})

	t.Run("rejects non-image file", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{
			"user_uuid":      ownerID,
			"procedure_type": "X",
		}, "image", "report.pdf", []byte("%PDF-1.4"))

		req := httptest.NewRequest(http.MethodPost, "/forms", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_FAILED", res.Error.Code)
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{
			"user_uuid":      ownerID,
			"procedure_type": "X",
		}, "image", "huge.jpg", make([]byte, maxUploadSize+1))

		req := httptest.NewRequest(http.MethodPost, "/forms", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_FAILED", res.Error.Code)
	})

	t.Run("row created but upload failed", func(t *testing.T) {
		partial := &model.Form{ID: 3, UserUUID: ownerID, ProcedureType: "X"}
		attErr := fmt.Errorf("%w: form 3 exists; image missing: upload failed", service.ErrAttachment)
		mockSvc.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*service.FileUpload")).Return(partial, attErr).Once()

		body, ct := multipartBody(t, map[string]string{
			"user_uuid":      ownerID,
			"procedure_type": "X",
		}, "image", "duck.jpg", []byte("jpegbytes"))

		req := httptest.NewRequest(http.MethodPost, "/forms", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "ATTACHMENT_FAILED", res.Error.Code)
		assert.Contains(t, res.Error.Message, "form 3 exists")
		mockSvc.AssertExpectations(t)
	})
}

func TestListForms(t *testing.T) {
	mockSvc := new(serviceMocks.MockFormService)
	app := fiber.New()
	app.Get("/forms", ListForms(mockSvc))

	t.Run("success", func(t *testing.T) {
		forms := []model.Form{
			{ID: 1, UserUUID: "u1", ProcedureType: "X", Image: strPtr("https://minio/signed?token=abc")},
			{ID: 2, UserUUID: "u2", ProcedureType: "Y"},
		}
		mockSvc.On("FindAll", mock.Anything).Return(forms, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/forms", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result []model.Form
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result, 2)
		mockSvc.AssertExpectations(t)
	})

	t.Run("signing failure", func(t *testing.T) {
		attErr := fmt.Errorf("%w: could not sign attachment URL", service.ErrAttachment)
		mockSvc.On("FindAll", mock.Anything).Return(nil, attErr).Once()

		req := httptest.NewRequest(http.MethodGet, "/forms", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "ATTACHMENT_FAILED", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("FindAll", mock.Anything).Return(nil, errors.New("db error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/forms", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetForm(t *testing.T) {
	mockSvc := new(serviceMocks.MockFormService)
	app := fiber.New()
	app.Get("/forms/:id", GetForm(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &model.Form{ID: 1, UserUUID: "u1", ProcedureType: "X"}
		mockSvc.On("FindOne", mock.Anything, int64(1)).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/forms/1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Form
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, int64(1), result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/forms/abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_FAILED", res.Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		nfErr := fmt.Errorf("%w: form 999", service.ErrNotFound)
		mockSvc.On("FindOne", mock.Anything, int64(999)).Return(nil, nfErr).Once()

		req := httptest.NewRequest(http.MethodGet, "/forms/999", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("FindOne", mock.Anything, int64(2)).Return(nil, errors.New("db error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/forms/2", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestUpdateForm(t *testing.T) {
	mockSvc := new(serviceMocks.MockFormService)
	app := fiber.New()
	app.Patch("/forms/:id", UpdateForm(mockSvc))

	t.Run("success with patch fields and file", func(t *testing.T) {
		expected := &model.Form{ID: 1, UserUUID: "u1", ProcedureType: "Y", Image: strPtr("u1/1-new.jpg")}
		in := service.UpdateFormInput{ProcedureType: strPtr("Y")}
		mockSvc.On("Update", mock.Anything, int64(1), in, mock.AnythingOfType("*service.FileUpload")).Return(expected, nil).Once()

		body, ct := multipartBody(t, map[string]string{
			"procedure_type": "Y",
		}, "file", "new.jpg", []byte("jpegbytes"))

		req := httptest.NewRequest(http.MethodPatch, "/forms/1", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Form
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "Y", result.ProcedureType)
		assert.Equal(t, "u1/1-new.jpg", *result.Image)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"procedure_type": "Y"}, "", "", nil)

		req := httptest.NewRequest(http.MethodPatch, "/forms/abc", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		nfErr := fmt.Errorf("%w: form 999", service.ErrNotFound)
		mockSvc.On("Update", mock.Anything, int64(999), mock.Anything, (*service.FileUpload)(nil)).Return(nil, nfErr).Once()

		body, ct := multipartBody(t, map[string]string{"procedure_type": "Y"}, "", "", nil)

		req := httptest.NewRequest(http.MethodPatch, "/forms/999", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("upload failure leaves form unchanged", func(t *testing.T) {
		attErr := fmt.Errorf("%w: image upload failed; form 1 unchanged", service.ErrAttachment)
		mockSvc.On("Update", mock.Anything, int64(1), mock.Anything, mock.AnythingOfType("*service.FileUpload")).Return(nil, attErr).Once()

		body, ct := multipartBody(t, nil, "file", "new.jpg", []byte("jpegbytes"))

		req := httptest.NewRequest(http.MethodPatch, "/forms/1", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "ATTACHMENT_FAILED", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeleteForm(t *testing.T) {
	mockSvc := new(serviceMocks.MockFormService)
	app := fiber.New()
	app.Delete("/forms/:id", DeleteForm(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Remove", mock.Anything, int64(1)).Return("Form 1 deleted successfully", nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/forms/1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Contains(t, body["message"], "1")
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		nfErr := fmt.Errorf("%w: form 999", service.ErrNotFound)
		mockSvc.On("Remove", mock.Anything, int64(999)).Return("", nfErr).Once()

		req := httptest.NewRequest(http.MethodDelete, "/forms/999", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Remove", mock.Anything, int64(2)).Return("", errors.New("delete error")).Once()

		req := httptest.NewRequest(http.MethodDelete, "/forms/2", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}
