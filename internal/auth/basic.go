package auth

import (
	"encoding/base64"
	"errors"
	"os"
	"strings"
)

var ErrMalformedToken = errors.New("malformed authorization token")

// Decision is an explicit allow/deny outcome, never an exception path.
type Decision struct {
	Principal string
	Allowed   bool
}

// Authorizer checks a Basic token against per-user secrets. Secrets
// defaults to the process environment: the secret for user "alice" is
// the value of the env variable named "alice".
type Authorizer struct {
	Secrets func(user string) string
}

func New() *Authorizer {
	return &Authorizer{Secrets: os.Getenv}
}

// ParseToken splits an "Authorization: Basic <base64(user:password)>" value.
func ParseToken(header string) (user, password string, err error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Basic") || token == "" {
		return "", "", ErrMalformedToken
	}
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", "", ErrMalformedToken
	}
	user, password, ok = strings.Cut(string(raw), ":")
	if !ok || user == "" {
		return "", "", ErrMalformedToken
	}
	return user, password, nil
}

func (a *Authorizer) Authorize(header string) (Decision, error) {
	user, password, err := ParseToken(header)
	if err != nil {
		return Decision{}, err
	}
	secret := a.Secrets(user)
	return Decision{
		Principal: user,
		Allowed:   secret != "" && secret == password,
	}, nil
}
