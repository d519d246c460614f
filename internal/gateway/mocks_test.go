package gateway_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/apigate/pkg/auth"
)

type mockPasswords struct{ mock.Mock }

func (m *mockPasswords) Register(ctx context.Context, email, password, name string) (*auth.User, error) {
	args := m.Called(ctx, email, password, name)
	if u := args.Get(0); u != nil {
		return u.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPasswords) Authenticate(ctx context.Context, email, password string) (*auth.User, error) {
	args := m.Called(ctx, email, password)
	if u := args.Get(0); u != nil {
		return u.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockOAuth struct{ mock.Mock }

func (m *mockOAuth) GetAuthURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockOAuth) Auth(ctx context.Context, code, state string) (*auth.User, bool, error) {
	args := m.Called(ctx, code, state)
	if u := args.Get(0); u != nil {
		return u.(*auth.User), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}
