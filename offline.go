package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Demo credential pair accepted by the default offline provider.
const (
	DemoEmail    = "user@example.com"
	demoPassword = "password"
	demoName     = "Demo User"
)

// DemoProvider is the stock OfflineProvider: it accepts a single demo
// credential pair and mints a locally signed token pair so the rest of the
// session machinery behaves exactly as it does against a live backend. It
// exists to keep demos usable without infrastructure; production wiring
// should not install it.
type DemoProvider struct {
	email        string
	passwordHash []byte
	signingKey   []byte
	tokenTTL     time.Duration
	now          func() time.Time
}

type DemoProviderOption func(*DemoProvider)

// WithDemoCredentials overrides the accepted email/password pair.
func WithDemoCredentials(email, password string) DemoProviderOption {
	return func(p *DemoProvider) {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return
		}
		p.email = email
		p.passwordHash = hash
	}
}

// WithDemoTokenTTL sets the lifetime of minted access tokens.
func WithDemoTokenTTL(ttl time.Duration) DemoProviderOption {
	return func(p *DemoProvider) {
		if ttl > 0 {
			p.tokenTTL = ttl
		}
	}
}

// WithDemoClock injects a clock for tests.
func WithDemoClock(clock func() time.Time) DemoProviderOption {
	return func(p *DemoProvider) {
		if clock != nil {
			p.now = clock
		}
	}
}

func NewDemoProvider(opts ...DemoProviderOption) *DemoProvider {
	hash, _ := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)

	p := &DemoProvider{
		email:        DemoEmail,
		passwordHash: hash,
		signingKey:   randomKey(),
		tokenTTL:     time.Hour,
		now:          time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

func (p *DemoProvider) Login(ctx context.Context, email, password string) (*Credentials, error) {
	if email != p.email {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(p.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return p.mint(email, demoName)
}

func (p *DemoProvider) Register(ctx context.Context, payload RegisterPayload) (*Credentials, error) {
	name := payload.Name
	if name == "" {
		name = demoName
	}
	return p.mint(payload.Email, name)
}

func (p *DemoProvider) mint(email, name string) (*Credentials, error) {
	id := uuid.New().String()
	now := p.now()

	claims := jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.tokenTTL)),
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.signingKey)
	if err != nil {
		return nil, err
	}

	refresh, err := opaqueToken(32)
	if err != nil {
		return nil, err
	}

	user, err := json.Marshal(map[string]string{
		"id":    id,
		"name":  name,
		"email": email,
	})
	if err != nil {
		return nil, err
	}

	return &Credentials{
		TokenPair: TokenPair{AccessToken: access, RefreshToken: refresh},
		User:      user,
	}, nil
}

func opaqueToken(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func randomKey() []byte {
	b := make([]byte, 32)
	rand.Read(b)
	return b
}
