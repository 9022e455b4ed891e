package auth

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/garderie/core/user"
)

type memJar struct {
	token   string
	ttl     time.Duration
	cleared int
}

func (j *memJar) Token() string { return j.token }

func (j *memJar) SetToken(token string, ttl time.Duration) error {
	j.token, j.ttl = token, ttl
	return nil
}

func (j *memJar) ClearToken() {
	j.token = ""
	j.cleared++
}

var errBadCredentials = errors.New("Identifiants invalides")

type clientMock struct {
	usr   user.User
	token string
	pwd   string
	calls int
}

func (c *clientMock) Login(_ context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	c.calls++
	if req.Email != c.usr.Email || req.Password != c.pwd {
		return nil, errBadCredentials
	}
	return &user.LoginResponse{Token: c.token, User: c.usr}, nil
}

func (c *clientMock) Me(context.Context) (*user.User, error) {
	c.calls++
	usr := c.usr
	return &usr, nil
}

func newMock() *clientMock {
	return &clientMock{
		usr:   user.User{ID: 3, Email: "lina@test.ma", Role: user.RoleTeacher, FirstName: "Lina"},
		token: "tok3n",
		pwd:   "Secret-123",
	}
}

func TestStore_Login(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		wantErr   error
		wantToken string
	}{
		{name: "success", email: "lina@test.ma", password: "Secret-123", wantToken: "tok3n"},
		{name: "bad password", email: "lina@test.ma", password: "nope", wantErr: errBadCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jar := new(memJar)
			store := NewStore(newMock(), jar, 0)

			err := store.Login(context.Background(), tt.email, tt.password)
			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.wantErr, store.Err())
			assert.False(t, store.Loading())
			assert.Equal(t, tt.wantToken, store.Token())
			assert.Equal(t, tt.wantToken, jar.token)

			if tt.wantErr == nil {
				assert.Equal(t, DefaultTokenTTL, jar.ttl)
				if assert.NotNil(t, store.User()) {
					assert.Equal(t, 3, store.User().ID)
				}
			} else {
				assert.Nil(t, store.User())
			}
		})
	}
}

func TestStore_LoginWithoutToken(t *testing.T) {
	mock := newMock()
	mock.token = ""
	store := NewStore(mock, new(memJar), time.Hour)

	err := store.Login(context.Background(), "lina@test.ma", "Secret-123")
	assert.Equal(t, ErrNoToken, err)
	assert.False(t, store.IsAuthenticated())
}

func TestStore_Logout(t *testing.T) {
	jar := new(memJar)
	store := NewStore(newMock(), jar, time.Hour)
	if err := store.Login(context.Background(), "lina@test.ma", "Secret-123"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	for i := 1; i <= 3; i++ {
		store.Logout()
		assert.Nil(t, store.User())
		assert.Equal(t, "", store.Token())
		assert.NoError(t, store.Err())
		assert.Equal(t, "", jar.token)
		assert.Equal(t, i, jar.cleared)
	}
}

func TestStore_InitializeAuth(t *testing.T) {
	usr := user.User{ID: 7, Email: "admin@test.ma", Role: user.RoleAdmin, FirstName: "Nora"}
	expired, err := SignToken(UserClaims(usr, "api", -time.Hour), []byte("k"))
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}

	tests := []struct {
		name     string
		cookie   string
		wantUser *user.User
	}{
		{name: "no cookie"},
		{name: "opaque token", cookie: "opaque"},
		{
			name:     "expired jwt is trusted",
			cookie:   expired,
			wantUser: &user.User{ID: 7, Email: "admin@test.ma", Role: user.RoleAdmin, FirstName: "Nora", Status: user.StatusActive},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock()
			store := NewStore(mock, &memJar{token: tt.cookie}, time.Hour)
			store.InitializeAuth()

			assert.Equal(t, tt.cookie, store.Token())
			assert.Equal(t, tt.wantUser, store.User())
			assert.Equal(t, 0, mock.calls, "no API round-trip")
		})
	}
}

func TestStore_LoadUser(t *testing.T) {
	mock := newMock()
	store := NewStore(mock, &memJar{token: "opaque"}, time.Hour)
	store.InitializeAuth()

	assert.NoError(t, store.LoadUser(context.Background()))
	if assert.NotNil(t, store.User()) {
		assert.Equal(t, user.RoleTeacher, store.User().Role)
	}

	anon := NewStore(mock, new(memJar), time.Hour)
	calls := mock.calls
	assert.NoError(t, anon.LoadUser(context.Background()))
	assert.Equal(t, calls, mock.calls)
}
