package static_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/adrianliechti/studio/pkg/auth"
	"github.com/adrianliechti/studio/pkg/auth/static"

	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	p, err := static.New("secret")
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/api/languages", nil)
	r.Header.Set("Authorization", "Bearer secret")

	ctx, err := p.Authenticate(context.Background(), r)
	require.NoError(t, err)
	require.Equal(t, "static", auth.User(ctx))
}

func TestAuthenticateRejects(t *testing.T) {
	p, _ := static.New("secret")

	r := httptest.NewRequest("GET", "/", nil)

	_, err := p.Authenticate(context.Background(), r)
	require.ErrorIs(t, err, auth.ErrMissingToken)

	r.Header.Set("Authorization", "Basic abc")

	_, err = p.Authenticate(context.Background(), r)
	require.ErrorIs(t, err, auth.ErrInvalidToken)

	r.Header.Set("Authorization", "Bearer wrong")

	_, err = p.Authenticate(context.Background(), r)
	require.Error(t, err)
}

func TestAuthenticateDisabled(t *testing.T) {
	p, _ := static.New("")

	_, err := p.Authenticate(context.Background(), httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
}
