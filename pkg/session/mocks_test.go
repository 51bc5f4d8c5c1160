package session

import (
	"context"

	"github.com/dixieflatline76/Realist/pkg/imageio"
	"github.com/stretchr/testify/mock"
)

// MockEnhancer implements enhance.Enhancer for testing
type MockEnhancer struct {
	mock.Mock
}

func (m *MockEnhancer) Enhance(ctx context.Context, src *imageio.Picture, prompt string) (*imageio.Picture, error) {
	args := m.Called(ctx, src, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*imageio.Picture), args.Error(1)
}
