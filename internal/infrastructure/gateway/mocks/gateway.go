// Package mocks provides testify mocks for the payment gateway port.
package mocks

import (
	"context"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/stretchr/testify/mock"
)

type MockPaymentGateway struct {
	mock.Mock
}

// NewMockPaymentGateway registers expectation checks on test cleanup.
func NewMockPaymentGateway(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPaymentGateway {
	m := &MockPaymentGateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPaymentGateway) CreateIntent(ctx context.Context, req application.CreateIntentRequest) (*application.IntentResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*application.IntentResponse)
	return resp, args.Error(1)
}

func (m *MockPaymentGateway) GetIntent(ctx context.Context, externalRef string) (*application.IntentResponse, error) {
	args := m.Called(ctx, externalRef)
	resp, _ := args.Get(0).(*application.IntentResponse)
	return resp, args.Error(1)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, req application.RefundRequest, idempotencyKey string) (*application.RefundResponse, error) {
	args := m.Called(ctx, req, idempotencyKey)
	resp, _ := args.Get(0).(*application.RefundResponse)
	return resp, args.Error(1)
}
