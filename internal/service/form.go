package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"formsapi/internal/model"
	"formsapi/internal/repository"
	"formsapi/internal/storage"
)

// signedURLExpiry bounds how long attachment URLs handed to clients stay valid.
const signedURLExpiry = time.Hour

// CreateFormInput is the validated payload for creating a form.
type CreateFormInput struct {
	UserUUID      string
	ProcedureType string
	Diagnosis     *string
}

// UpdateFormInput carries the patch fields of an update. Nil fields are left
// unchanged.
type UpdateFormInput struct {
	ProcedureType *string
	Diagnosis     *string
}

// FileUpload is an attachment received with a create or update request.
type FileUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// FormService defines the use cases for handling forms and their attachments.
//
// There is no transaction spanning the row store and the object store, so a
// storage failure mid-operation leaves the row in a partial but valid state
// (persisted without an attachment, or with a stale one) rather than rolling
// back. Callers see such outcomes as ErrAttachment. Concurrent updates to the
// same form id are not serialized: the last row writer wins and the order of
// object-store side effects across the two requests is undefined.
type FormService interface {
	// Create persists the row first, then uploads the attachment (if any) and
	// records its key on the row.
	Create(ctx context.Context, in CreateFormInput, file *FileUpload) (*model.Form, error)

	// FindAll returns every form with attachment references replaced by
	// short-lived signed URLs.
	FindAll(ctx context.Context) ([]model.Form, error)

	// FindOne returns a single form with a signed attachment URL.
	FindOne(ctx context.Context, id int64) (*model.Form, error)

	// Update applies patch fields and optionally replaces the attachment.
	Update(ctx context.Context, id int64, in UpdateFormInput, file *FileUpload) (*model.Form, error)

	// Remove deletes the row and its attachment, returning a confirmation message.
	Remove(ctx context.Context, id int64) (string, error)
}

type formService struct {
	store storage.Storage
	repo  repository.FormRepository
}

// NewFormService constructs a new FormService.
func NewFormService(store storage.Storage, repo repository.FormRepository) FormService {
	return &formService{store: store, repo: repo}
}

// attachmentKey derives the object store key for a form's attachment. The form
// id keeps attachments of the same owner with identical filenames from
// colliding.
func attachmentKey(ownerUUID string, formID int64, filename string) string {
	return fmt.Sprintf("%s/%d-%s", ownerUUID, formID, filepath.Base(filename))
}

func (s *formService) Create(ctx context.Context, in CreateFormInput, file *FileUpload) (*model.Form, error) {
	if in.UserUUID == "" || in.ProcedureType == "" {
		return nil, fmt.Errorf("%w: user_uuid and procedure_type are required", ErrValidation)
	}

	form, err := s.repo.Create(ctx, &model.Form{
		UserUUID:      in.UserUUID,
		ProcedureType: in.ProcedureType,
		Diagnosis:     in.Diagnosis,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: could not create form", ErrValidation)
	}

	if file == nil {
		return form, nil
	}

	key := attachmentKey(form.UserUUID, form.ID, file.Filename)
	_, err = s.store.Put(ctx, key, file.Reader, storage.PutObjectOptions{
		Size:        file.Size,
		ContentType: file.ContentType,
	})
	if err != nil {
		// The row stays without an attachment reference; re-uploading via
		// update is the recovery path.
		return form, fmt.Errorf("%w: form %d exists; image missing: upload failed", ErrAttachment, form.ID)
	}

	updated, err := s.repo.SetImage(ctx, form.ID, key)
	if err != nil {
		// Object uploaded but the reference write failed; the row stays
		// without an attachment reference.
		return form, fmt.Errorf("%w: form %d exists; image missing: could not record attachment", ErrAttachment, form.ID)
	}
	return updated, nil
}

func (s *formService) FindAll(ctx context.Context) ([]model.Form, error) {
	forms, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range forms {
		if forms[i].Image == nil {
			continue
		}
		u, err := s.store.PresignGet(ctx, *forms[i].Image, signedURLExpiry)
		if err != nil {
			// All-or-nothing: a single signing failure fails the whole read
			// rather than leaking raw bucket keys for some rows.
			return nil, fmt.Errorf("%w: could not sign attachment URL", ErrAttachment)
		}
		forms[i].Image = &u
	}
	return forms, nil
}

func (s *formService) FindOne(ctx context.Context, id int64) (*model.Form, error) {
	form, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: form %d", ErrNotFound, id)
		}
		return nil, err
	}
	if form.Image != nil {
		u, err := s.store.PresignGet(ctx, *form.Image, signedURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("%w: could not sign attachment URL", ErrAttachment)
		}
		form.Image = &u
	}
	return form, nil
}

func (s *formService) Update(ctx context.Context, id int64, in UpdateFormInput, file *FileUpload) (*model.Form, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: form %d", ErrNotFound, id)
		}
		return nil, err
	}

	image := existing.Image
	if file != nil {
		if existing.Image != nil {
			// Removing the stale object is best-effort; the new state does not
			// depend on it.
			if err := s.store.Delete(ctx, *existing.Image); err != nil {
				log.Printf("remove stale attachment %s for form %d: %v", *existing.Image, id, err)
			}
		}

		key := attachmentKey(existing.UserUUID, id, file.Filename)
		_, err = s.store.Put(ctx, key, file.Reader, storage.PutObjectOptions{
			Size:        file.Size,
			ContentType: file.ContentType,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: image upload failed; form %d unchanged", ErrAttachment, id)
		}
		image = &key
	}

	updated, err := s.repo.Update(ctx, id, repository.FormPatch{
		ProcedureType: in.ProcedureType,
		Diagnosis:     in.Diagnosis,
		Image:         image,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: form %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: update failed for form %d", ErrAttachment, id)
	}
	return updated, nil
}

func (s *formService) Remove(ctx context.Context, id int64) (string, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: form %d", ErrNotFound, id)
		}
		return "", err
	}

	if existing.Image != nil {
		// Storage leakage is accepted over blocking record deletion.
		if err := s.store.Delete(ctx, *existing.Image); err != nil {
			log.Printf("remove attachment %s for form %d: %v", *existing.Image, id, err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: form %d", ErrNotFound, id)
		}
		return "", fmt.Errorf("could not delete form %d: %w", id, err)
	}

	return fmt.Sprintf("Form %d deleted successfully", id), nil
}
