package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"studio/pkg/sanitizer"
	"studio/pkg/sealer"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("session token expired")
)

const (
	fieldSep = "|"
	roleSep  = ","
)

// Tokens issues and verifies sealed session tokens of the form
// userID|role,role|expiresUnix.
type Tokens struct {
	sealer *sealer.Sealer
	now    func() time.Time
}

func NewTokens(s *sealer.Sealer) *Tokens {
	return &Tokens{sealer: s, now: time.Now}
}

func NewTokensFromKey(encodedKey string) (*Tokens, error) {
	s, err := sealer.NewFromBase64(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("session key: %w", err)
	}
	return NewTokens(s), nil
}

func (t *Tokens) Issue(p Principal, ttl time.Duration) (string, error) {
	userID := strings.TrimSpace(p.UserID)
	if userID == "" || strings.Contains(userID, fieldSep) {
		return "", fmt.Errorf("%w: user id must be non-empty and must not contain %q", ErrInvalidToken, fieldSep)
	}
	if ttl <= 0 {
		return "", fmt.Errorf("%w: ttl must be positive", ErrInvalidToken)
	}

	roles := sanitizer.NormalizeRoles(p.Roles)
	for _, role := range roles {
		if strings.ContainsAny(role, fieldSep+roleSep) {
			return "", fmt.Errorf("%w: role %q contains a separator", ErrInvalidToken, role)
		}
	}

	exp := t.now().Add(ttl).Unix()
	payload := strings.Join([]string{userID, strings.Join(roles, roleSep), strconv.FormatInt(exp, 10)}, fieldSep)
	return t.sealer.Seal(payload)
}

// Parse opens a token and returns its principal and expiry.
func (t *Tokens) Parse(token string) (Principal, time.Time, error) {
	payload, err := t.sealer.Open(token)
	if err != nil {
		return Principal{}, time.Time{}, ErrInvalidToken
	}

	parts := strings.Split(payload, fieldSep)
	if len(parts) != 3 || parts[0] == "" {
		return Principal{}, time.Time{}, ErrInvalidToken
	}

	expUnix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Principal{}, time.Time{}, ErrInvalidToken
	}
	expiresAt := time.Unix(expUnix, 0).UTC()

	p := Principal{UserID: parts[0]}
	if parts[1] != "" {
		p.Roles = strings.Split(parts[1], roleSep)
	}

	if !t.now().Before(expiresAt) {
		return p, expiresAt, ErrExpiredToken
	}
	return p, expiresAt, nil
}
