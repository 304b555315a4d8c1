package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"starjar/internal/models"
	"starjar/internal/pkg/restapi"

	"github.com/samber/do"
)

// authPayload is the wire shape of sign-in/up responses.
type authPayload struct {
	User      models.AuthUser `json:"user"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// AuthREST is the remote-HTTP variant of AuthService. The bearer token lives
// on the shared restapi.Client; the auth-state stream is a purely local
// observer list and never sees server-side invalidation.
type AuthREST struct {
	api *restapi.Client

	listeners authListeners

	mu      sync.RWMutex
	session *models.Session
}

func NewAuthREST(container *do.Injector) (*AuthREST, error) {
	api, err := do.Invoke[*restapi.Client](container)
	if err != nil {
		return nil, err
	}

	return &AuthREST{api: api}, nil
}

// Session degrades an expired session to nil, same as the postgres variant.
func (service *AuthREST) Session(ctx context.Context) (*models.Session, error) {
	service.mu.RLock()
	session := service.session
	service.mu.RUnlock()

	if session == nil {
		return nil, nil
	}
	if time.Now().After(session.ExpiresAt) {
		service.mu.Lock()
		service.session = nil
		service.mu.Unlock()
		service.api.SetToken("")
		return nil, nil
	}

	return session, nil
}

func (service *AuthREST) OnAuthStateChange(listener AuthStateListener) func() {
	return service.listeners.add(listener)
}

func (service *AuthREST) SignIn(ctx context.Context, email string, password string) (*models.Session, error) {
	payload, err := restOne[authPayload](ctx, service.api, http.MethodPost, "/auth/signin", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, fmt.Errorf("empty sign-in response")
	}

	session := service.adoptSession(payload)
	service.listeners.fire(AuthStateSignedIn, session)
	return session, nil
}

func (service *AuthREST) SignUp(ctx context.Context, params SignUpParams) (*models.Session, error) {
	payload, err := restOne[authPayload](ctx, service.api, http.MethodPost, "/auth/signup", params)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, fmt.Errorf("empty sign-up response")
	}

	session := service.adoptSession(payload)
	service.listeners.fire(AuthStateSignedUp, session)
	return session, nil
}

// SignOut always clears the local token and fires SIGNED_OUT, even when the
// endpoint call fails; the caller still learns about the failure.
func (service *AuthREST) SignOut(ctx context.Context) error {
	err := restNoContent(ctx, service.api, http.MethodPost, "/auth/signout", nil)

	service.mu.Lock()
	service.session = nil
	service.mu.Unlock()
	service.api.SetToken("")

	service.listeners.fire(AuthStateSignedOut, nil)
	return err
}

func (service *AuthREST) FetchUserProfile(ctx context.Context, userID string) (*models.AuthUser, error) {
	return restOne[models.AuthUser](ctx, service.api, http.MethodGet, "/auth/profile/"+url.PathEscape(userID), nil)
}

func (service *AuthREST) adoptSession(payload *authPayload) *models.Session {
	session := &models.Session{
		Token:     payload.Token,
		User:      payload.User,
		ExpiresAt: payload.ExpiresAt,
	}

	service.mu.Lock()
	service.session = session
	service.mu.Unlock()
	service.api.SetToken(session.Token)

	return session
}
