package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/trezcool/garderie/core/user"
)

// Claims represents the authorization claims carried by the API's JWT.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// UserClaims returns the claims of usr, valid for ttl.
func UserClaims(usr user.User, issuer string, ttl time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.Itoa(usr.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email:     usr.Email,
		Role:      usr.Role,
		FirstName: usr.FirstName,
		LastName:  usr.LastName,
	}
}

// User returns the identity described by the claims.
func (c Claims) User() (*user.User, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil {
		return nil, errors.Wrap(err, "parsing subject")
	}
	if !user.IsValidRole(c.Role) {
		return nil, errors.Errorf("unknown role %q", c.Role)
	}
	return &user.User{
		ID:        id,
		Email:     c.Email,
		Role:      c.Role,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Status:    user.StatusActive,
	}, nil
}

// ParseUnverified decodes the claims of token without checking its signature nor its expiry.
// The API stays the only judge of the token's validity.
func ParseUnverified(token string) (*Claims, error) {
	claims := new(Claims)
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(err, "parsing token")
	}
	return claims, nil
}

// SignToken signs claims with HS256.
func SignToken(claims *Claims, key []byte) (string, error) {
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// VerifyToken parses token, checking its signature and expiry.
func VerifyToken(token string, key []byte) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.Wrap(err, "verifying token")
	}
	return claims, nil
}
