package mocks

import (
	"context"

	"formsapi/internal/model"
	"formsapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockFormService struct {
	mock.Mock
}

func (m *MockFormService) Create(ctx context.Context, in service.CreateFormInput, file *service.FileUpload) (*model.Form, error) {
	args := m.Called(ctx, in, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Form), args.Error(1)
}

func (m *MockFormService) FindAll(ctx context.Context) ([]model.Form, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Form), args.Error(1)
}

func (m *MockFormService) FindOne(ctx context.Context, id int64) (*model.Form, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Form), args.Error(1)
}

func (m *MockFormService) Update(ctx context.Context, id int64, in service.UpdateFormInput, file *service.FileUpload) (*model.Form, error) {
	args := m.Called(ctx, id, in, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Form), args.Error(1)
}

func (m *MockFormService) Remove(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
