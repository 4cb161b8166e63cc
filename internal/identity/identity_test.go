package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musicbesties/api/internal/model"
)

var testUser = model.User{ID: "test-user-123", Email: "test@example.com"}

func TestJWTSignAndVerify(t *testing.T) {
	v := NewJWTVerifier("secret")
	token, err := v.Sign(&model.User{ID: "u1", Email: "ann@example.com"}, time.Hour)
	require.NoError(t, err)

	user, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "ann@example.com", user.Email)
}

func TestJWTVerifyRejectsWrongSecretAndExpiry(t *testing.T) {
	token, err := NewJWTVerifier("one").Sign(&model.User{ID: "u1"}, time.Hour)
	require.NoError(t, err)

	_, err = NewJWTVerifier("two").Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewJWTVerifier("one").Sign(&model.User{ID: "u1"}, -time.Minute)
	require.NoError(t, err)
	_, err = NewJWTVerifier("one").Verify(context.Background(), expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTVerifyRequiresSubject(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Email: "x@example.com"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTVerifier("secret").Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMockProviderTestToken(t *testing.T) {
	p := NewMockProvider("secret", time.Hour, testUser)

	user, err := p.Verify(context.Background(), TestToken)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, user.ID)
}

func TestMockProviderSignUpSignInSignOut(t *testing.T) {
	p := NewMockProvider("secret", time.Hour, testUser)
	ctx := context.Background()

	session, err := p.SignUp(ctx, "ann@example.com", "hunter22", "Ann")
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken)
	assert.Equal(t, "Ann", session.User.UserMetadata["username"])

	_, err = p.SignUp(ctx, "ANN@example.com", "whatever", "Ann2")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = p.SignIn(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	login, err := p.SignIn(ctx, "ann@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)

	user, err := p.Verify(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, user.ID)

	require.NoError(t, p.SignOut(ctx, login.AccessToken))
	_, err = p.Verify(ctx, login.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMockProviderSeededTestUserCanSignIn(t *testing.T) {
	p := NewMockProvider("secret", time.Hour, testUser)

	session, err := p.SignIn(context.Background(), testUser.Email, TestPassword)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, session.User.ID)
}

func newGoTrueServer(t *testing.T, handler http.HandlerFunc) *GoTrueProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGoTrueProvider(srv.URL+"/", "anon-key", "jwt-secret")
}

func TestGoTrueSignIn(t *testing.T) {
	p := newGoTrueServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ann@example.com", body["email"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at","refresh_token":"rt","user":{"id":"u1","email":"ann@example.com"}}`))
	})

	session, err := p.SignIn(context.Background(), "ann@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "at", session.AccessToken)
	assert.Equal(t, "u1", session.User.ID)
}

func TestGoTrueSignInBadCredentials(t *testing.T) {
	p := newGoTrueServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	_, err := p.SignIn(context.Background(), "ann@example.com", "bad")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "Invalid login credentials")
}

func TestGoTrueSignUpSendsUsernameAndHandlesBareUser(t *testing.T) {
	p := newGoTrueServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)

		var body struct {
			Data map[string]string `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ann", body.Data["username"])

		w.Write([]byte(`{"id":"u9","email":"ann@example.com"}`))
	})

	session, err := p.SignUp(context.Background(), "ann@example.com", "pw1234", "Ann")
	require.NoError(t, err)
	assert.Equal(t, "u9", session.User.ID)
	assert.Empty(t, session.AccessToken)
}

func TestGoTrueSignUpExistingUser(t *testing.T) {
	p := newGoTrueServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"code":422,"msg":"User already registered"}`))
	})

	_, err := p.SignUp(context.Background(), "ann@example.com", "pw1234", "Ann")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestGoTrueSignOutUsesBearer(t *testing.T) {
	p := newGoTrueServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, p.SignOut(context.Background(), "user-token"))
}

func TestGoTrueVerifyUsesJWTSecret(t *testing.T) {
	p := NewGoTrueProvider("http://unused", "anon-key", "jwt-secret")
	token, err := NewJWTVerifier("jwt-secret").Sign(&model.User{ID: "u1"}, time.Hour)
	require.NoError(t, err)

	user, err := p.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}
