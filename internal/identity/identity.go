// Package identity resolves bearer credentials to user identities,
// either locally against a shared signing secret or remotely through
// the identity provider's introspection endpoint.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-retryablehttp"

	tbHttp "github.com/rgood/tastebook/internal/http"
	tbJwt "github.com/rgood/tastebook/internal/jwt"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("expired token")
)

type Identity struct {
	UserID int64
}

// Verifier validates a bearer token and resolves the identity behind it.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// LocalVerifier validates HS256 tokens with a shared secret.
type LocalVerifier struct {
	Secret []byte
	KID    string
}

var _ Verifier = LocalVerifier{}

func (v LocalVerifier) Verify(_ context.Context, rawToken string) (Identity, error) {
	kid := v.KID
	if kid == "" {
		kid = tbJwt.DefaultKID
	}

	parsed, err := tbJwt.Validate(rawToken, kid, v.Secret)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Identity{}, errors.Join(ErrTokenExpired, err)
	} else if err != nil {
		return Identity{}, errors.Join(ErrTokenInvalid, err)
	}

	userID, err := tbJwt.Subject(parsed)
	if err != nil {
		return Identity{}, errors.Join(ErrTokenInvalid, err)
	}
	return Identity{UserID: userID}, nil
}

// Introspector asks the external identity provider whether a token
// is active, RFC 7662 style.
type Introspector struct {
	HTTP *tbHttp.HTTP
	URL  string
}

var _ Verifier = (*Introspector)(nil)

type introspectionResponse struct {
	Active bool   `json:"active"`
	Sub    string `json:"sub"`
}

func (i *Introspector) Verify(ctx context.Context, rawToken string) (Identity, error) {
	form := url.Values{"token": {rawToken}}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, i.URL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return Identity{}, fmt.Errorf("building introspection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := i.HTTP.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("introspecting token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if err := tbHttp.ExpectStatus2xx(resp); err != nil {
		return Identity{}, fmt.Errorf("introspecting token: %w", err)
	}

	var body introspectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Identity{}, fmt.Errorf("decoding introspection response: %w", err)
	}
	if !body.Active {
		return Identity{}, ErrTokenInvalid
	}

	userID, err := strconv.ParseInt(body.Sub, 10, 64)
	if err != nil {
		return Identity{}, fmt.Errorf("parsing subject %q: %w", body.Sub, errors.Join(ErrTokenInvalid, err))
	}
	return Identity{UserID: userID}, nil
}
