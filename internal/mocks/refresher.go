package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Refresher struct {
	mock.Mock
}

func (r *Refresher) RefreshData(ctx context.Context) error {
	args := r.Called(ctx)
	return args.Error(0)
}
