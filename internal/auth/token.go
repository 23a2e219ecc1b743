// Package auth issues and verifies bearer tokens and password hashes.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Guyuepp/knowledge-base/domain"
)

// Claims is the identity carried by a bearer token.
type Claims struct {
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	DepartmentID int64       `json:"deptId"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Actor converts the claims to the identity passed to usecases.
func (c Claims) Actor() (domain.Actor, error) {
	uid, err := c.UserID()
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: bad subject", domain.ErrUnauthorized)
	}
	return domain.Actor{UserID: uid, Role: c.Role, DepartmentID: c.DepartmentID}, nil
}

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(u domain.User) (string, error)
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

var _ TokenIssuer = (*TokenManager)(nil)

func NewTokenManager(secret []byte, ttl time.Duration, issuer string) *TokenManager {
	return &TokenManager{
		secret: secret,
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue signs an HS256 token for u.
func (m *TokenManager) Issue(u domain.User) (string, error) {
	now := m.now()
	claims := Claims{
		Name:         u.FullName,
		Email:        u.Email,
		Role:         u.Role,
		DepartmentID: u.DepartmentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies the signature and expiry of raw.
// Every failure is reported as domain.ErrUnauthorized.
func (m *TokenManager) Parse(raw string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, fmt.Errorf("%w: token expired", domain.ErrUnauthorized)
		}
		return Claims{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !token.Valid {
		return Claims{}, domain.ErrUnauthorized
	}
	return claims, nil
}
