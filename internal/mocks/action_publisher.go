package mocks

import (
	"context"

	"github.com/javivarba/chatbots/internal/publishers"
	"github.com/stretchr/testify/mock"
)

type ActionPublisher struct {
	mock.Mock
}

func (a *ActionPublisher) Publish(ctx context.Context, event publishers.ActionEvent) error {
	args := a.Called(ctx, event)
	return args.Error(0)
}
