package grpcserver

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc/metadata"

	"github.com/and161185/achbook/internal/model"
)

// PermUnrestricted is the wildcard permission that bypasses the book cooldown.
const PermUnrestricted = "achievement.*"

// Claims are the JWT claims issued by the host for a player.
type Claims struct {
	Name  string   `json:"name"`
	Perms []string `json:"perms,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for p. Unrestricted players get PermUnrestricted.
func IssueToken(key []byte, p model.Player, now time.Time, ttl time.Duration) (string, error) {
	c := Claims{
		Name: p.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if p.Unrestricted {
		c.Perms = []string{PermUnrestricted}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(key)
}

// ParseToken verifies an HS256 token and returns the player it describes.
func ParseToken(key []byte, tok string) (model.Player, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil || !parsed.Valid {
		return model.Player{}, errors.New("invalid token")
	}

	id, err := uuid.FromString(claims.Subject)
	if err != nil || id == uuid.Nil {
		return model.Player{}, errors.New("bad subject")
	}
	return model.Player{
		ID:           id,
		Name:         claims.Name,
		Unrestricted: slices.Contains(claims.Perms, PermUnrestricted),
	}, nil
}

func bearerTokenFromMD(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", errors.New("no metadata")
	}
	for _, v := range md.Get("authorization") {
		v = strings.TrimSpace(v)
		if len(v) >= 7 && strings.EqualFold(v[:7], "bearer ") {
			t := strings.TrimSpace(v[7:])
			if t != "" {
				return t, nil
			}
		}
	}
	return "", errors.New("no bearer token")
}
