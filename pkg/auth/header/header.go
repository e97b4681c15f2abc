package header

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/adrianliechti/studio/pkg/auth"
)

var _ auth.Provider = (*Provider)(nil)

// Provider trusts the identity headers set by an authenticating proxy in
// front of the server.
type Provider struct {
	userHeader  string
	emailHeader string
}

func New(opts ...Option) (*Provider, error) {
	p := &Provider{}

	for _, opt := range opts {
		opt(p)
	}

	if p.userHeader == "" {
		p.userHeader = "X-Forwarded-User"
	}

	if p.emailHeader == "" {
		p.emailHeader = "X-Forwarded-Email"
	}

	return p, nil
}

func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	user := strings.TrimSpace(r.Header.Get(p.userHeader))
	email := strings.TrimSpace(r.Header.Get(p.emailHeader))

	if user == "" && email == "" {
		return ctx, errors.New("no user information found in headers")
	}

	if email == "" && isEmail(user) {
		email = user
	}

	if user == "" {
		user = email
	}

	ctx = context.WithValue(ctx, auth.UserContextKey, user)

	if email != "" {
		ctx = context.WithValue(ctx, auth.EmailContextKey, email)
	}

	return ctx, nil
}

func isEmail(val string) bool {
	addr, err := mail.ParseAddress(val)
	return err == nil && addr.Address == val
}
