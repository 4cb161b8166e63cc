package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/musicbesties/api/internal/model"
)

// GoTrueProvider talks to the Supabase auth REST API.
type GoTrueProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	verifier   *JWTVerifier
}

// NewGoTrueProvider creates a provider for the Supabase project at projectURL.
// Tokens are verified locally with jwtSecret.
func NewGoTrueProvider(projectURL, apiKey, jwtSecret string) *GoTrueProvider {
	return &GoTrueProvider{
		baseURL: strings.TrimRight(projectURL, "/") + "/auth/v1",
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		verifier: NewJWTVerifier(jwtSecret),
	}
}

type gotrueSession struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	User         model.User `json:"user"`
}

type gotrueSignup struct {
	gotrueSession
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	CreatedAt    string         `json:"created_at"`
}

type gotrueError struct {
	Code             int    `json:"code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e gotrueError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (p *GoTrueProvider) Verify(ctx context.Context, token string) (*model.User, error) {
	return p.verifier.Verify(ctx, token)
}

func (p *GoTrueProvider) SignUp(ctx context.Context, email, password, username string) (*model.Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"username": username},
	}

	var resp gotrueSignup
	if err := p.do(ctx, "/signup", "", body, &resp); err != nil {
		return nil, err
	}

	// With email confirmation enabled the user object is returned bare.
	if resp.User.ID == "" && resp.ID != "" {
		resp.User = model.User{
			ID:           resp.ID,
			Email:        resp.Email,
			UserMetadata: resp.UserMetadata,
			CreatedAt:    resp.CreatedAt,
		}
	}

	return &model.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
	}, nil
}

func (p *GoTrueProvider) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp gotrueSession
	if err := p.do(ctx, "/token?grant_type=password", "", body, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, ErrInvalidCredentials
	}

	return &model.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
	}, nil
}

func (p *GoTrueProvider) SignOut(ctx context.Context, token string) error {
	return p.do(ctx, "/logout", token, nil, nil)
}

func (p *GoTrueProvider) do(ctx context.Context, path, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	} else {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return classifyGoTrueError(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func classifyGoTrueError(status int, raw []byte) error {
	var ge gotrueError
	_ = json.Unmarshal(raw, &ge)
	msg := ge.text()
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "already"):
		return fmt.Errorf("%w: %s", ErrUserExists, msg)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrInvalidToken, msg)
	case status >= 400 && status < 500:
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
	default:
		return fmt.Errorf("auth service error (status %d): %s", status, msg)
	}
}
