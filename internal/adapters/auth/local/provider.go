package local

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"meditrack/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const DefaultTTL = time.Hour

var (
	ErrMissingSecret = errors.New("jwt secret required")
	ErrInvalidToken  = errors.New("invalid token")
)

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

type account struct {
	id   string
	hash []byte
}

// Provider es un proveedor de identidad local para desarrollo: cuentas en
// memoria con bcrypt y tokens HS256. Implementa IdentityProvider y AuthVerifier.
type Provider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	accounts map[string]account // por email
}

func NewProvider(secret string, ttl time.Duration) (*Provider, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Provider{
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
		accounts: map[string]account{},
	}, nil
}

func (p *Provider) SignUp(_ context.Context, email, password string) (auth.Session, error) {
	email = normalizeEmail(email)
	if email == "" {
		return auth.Session{}, auth.ErrInvalidCredentials
	}
	if len(password) < 6 {
		return auth.Session{}, auth.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return auth.Session{}, err
	}

	p.mu.Lock()
	if _, exists := p.accounts[email]; exists {
		p.mu.Unlock()
		return auth.Session{}, auth.ErrEmailExists
	}
	acc := account{id: uuid.NewString(), hash: hash}
	p.accounts[email] = acc
	p.mu.Unlock()

	return p.session(acc.id, email)
}

func (p *Provider) SignIn(_ context.Context, email, password string) (auth.Session, error) {
	email = normalizeEmail(email)

	p.mu.RLock()
	acc, ok := p.accounts[email]
	p.mu.RUnlock()
	if !ok {
		return auth.Session{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return auth.Session{}, auth.ErrInvalidCredentials
	}

	return p.session(acc.id, email)
}

func (p *Provider) Verify(_ context.Context, token string) (auth.Claims, error) {
	claims := &tokenClaims{}
	t, err := jwt.ParseWithClaims(strings.TrimSpace(token), claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !t.Valid {
		return auth.Claims{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	return auth.Claims{UserID: claims.Subject, Email: claims.Email}, nil
}

func (p *Provider) session(userID, email string) (auth.Session, error) {
	now := p.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
		Email: email,
	})

	signed, err := token.SignedString(p.secret)
	if err != nil {
		return auth.Session{}, err
	}

	return auth.Session{
		UserID:    userID,
		Email:     email,
		IDToken:   signed,
		ExpiresIn: int(p.ttl.Seconds()),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
