package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/musicbesties/api/internal/model"
)

// Test-mode credentials.
const (
	TestToken    = "test-token-for-development-only"
	TestPassword = "test-password"
)

type account struct {
	user model.User
	hash []byte
}

// MockProvider is an in-process identity provider used in test mode.
type MockProvider struct {
	jwt      *JWTVerifier
	ttl      time.Duration
	testUser model.User

	mu       sync.RWMutex
	accounts map[string]*account
	revoked  map[string]struct{}
}

// NewMockProvider creates a provider that signs tokens with secret and knows testUser.
func NewMockProvider(secret string, ttl time.Duration, testUser model.User) *MockProvider {
	p := &MockProvider{
		jwt:      NewJWTVerifier(secret),
		ttl:      ttl,
		testUser: testUser,
		accounts: make(map[string]*account),
		revoked:  make(map[string]struct{}),
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err == nil {
		p.accounts[strings.ToLower(testUser.Email)] = &account{user: testUser, hash: hash}
	}
	return p
}

// Verify accepts the fixed test token or any unrevoked token this provider signed.
func (p *MockProvider) Verify(ctx context.Context, token string) (*model.User, error) {
	if token == TestToken {
		u := p.testUser
		return &u, nil
	}

	p.mu.RLock()
	_, revoked := p.revoked[token]
	p.mu.RUnlock()
	if revoked {
		return nil, ErrInvalidToken
	}

	return p.jwt.Verify(ctx, token)
}

func (p *MockProvider) SignUp(ctx context.Context, email, password, username string) (*model.Session, error) {
	key := strings.ToLower(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if _, exists := p.accounts[key]; exists {
		p.mu.Unlock()
		return nil, ErrUserExists
	}
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		UserMetadata: map[string]any{"username": username},
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	p.accounts[key] = &account{user: user, hash: hash}
	p.mu.Unlock()

	return p.session(user)
}

func (p *MockProvider) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	p.mu.RLock()
	acc, ok := p.accounts[strings.ToLower(email)]
	p.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return p.session(acc.user)
}

func (p *MockProvider) SignOut(ctx context.Context, token string) error {
	if token == TestToken {
		return nil
	}
	if _, err := p.jwt.Verify(ctx, token); err != nil {
		return err
	}

	p.mu.Lock()
	p.revoked[token] = struct{}{}
	p.mu.Unlock()
	return nil
}

func (p *MockProvider) session(user model.User) (*model.Session, error) {
	token, err := p.jwt.Sign(&user, p.ttl)
	if err != nil {
		return nil, err
	}
	return &model.Session{
		AccessToken:  token,
		RefreshToken: uuid.NewString(),
		User:         user,
	}, nil
}
