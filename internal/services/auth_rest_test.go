package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"starjar/internal/models"
	"starjar/internal/pkg/restapi"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClientContainer(t *testing.T, srv *httptest.Server) *do.Injector {
	t.Helper()

	injector := do.New()
	do.Provide(injector, func(i *do.Injector) (*restapi.Client, error) {
		return restapi.New(restapi.Config{BaseURL: srv.URL, APIKey: "test-key"})
	})

	return injector
}

func signInHandler(t *testing.T) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		if payload.Password != "correct" {
			w.WriteHeader(http.StatusUnauthorized)
			//nolint:errcheck
			json.NewEncoder(w).Encode(map[string]any{"data": nil, "error": "invalid login credentials", "message": "invalid login credentials"})
			return
		}

		//nolint:errcheck
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"user":       models.AuthUser{ID: "u1", Email: payload.Email, Role: models.RoleParent},
				"token":      "tok-abc",
				"expires_at": time.Now().Add(time.Hour),
			},
			"error": nil,
		})
	}
}

func TestAuthRESTSignIn(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/signin", signInHandler(t))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	auth, err := NewAuthREST(testClientContainer(t, srv))
	require.NoError(t, err)

	var events []AuthStateEvent
	auth.OnAuthStateChange(func(event AuthStateEvent, session *models.Session) {
		events = append(events, event)
	})

	session, err := auth.SignIn(context.Background(), "p@example.com", "correct")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", session.Token)
	assert.Equal(t, "u1", session.User.ID)
	assert.Equal(t, []AuthStateEvent{AuthStateSignedIn}, events)

	// the token is now held by the shared client
	assert.Equal(t, "tok-abc", auth.api.Token())

	got, err := auth.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestAuthRESTSignInFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/signin", signInHandler(t))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	auth, err := NewAuthREST(testClientContainer(t, srv))
	require.NoError(t, err)

	var fired int
	auth.OnAuthStateChange(func(event AuthStateEvent, session *models.Session) { fired++ })

	_, err = auth.SignIn(context.Background(), "p@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid login credentials", err.Error())
	assert.Zero(t, fired)
	assert.Empty(t, auth.api.Token())
}

func TestAuthRESTSignOutAlwaysClears(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/signin", signInHandler(t))
	mux.HandleFunc("/auth/signout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		//nolint:errcheck
		json.NewEncoder(w).Encode(map[string]any{"message": "store unavailable"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	auth, err := NewAuthREST(testClientContainer(t, srv))
	require.NoError(t, err)

	_, err = auth.SignIn(context.Background(), "p@example.com", "correct")
	require.NoError(t, err)

	var events []AuthStateEvent
	auth.OnAuthStateChange(func(event AuthStateEvent, session *models.Session) {
		events = append(events, event)
	})

	err = auth.SignOut(context.Background())
	require.Error(t, err)

	// local state is gone even though the endpoint failed
	assert.Empty(t, auth.api.Token())
	session, err := auth.Session(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Equal(t, []AuthStateEvent{AuthStateSignedOut}, events)
}

func TestAuthRESTFetchUserProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/profile/u9", func(w http.ResponseWriter, r *http.Request) {
		//nolint:errcheck
		json.NewEncoder(w).Encode(map[string]any{
			"data":  models.AuthUser{ID: "u9", DisplayName: "Sam", Role: models.RoleKid},
			"error": nil,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	auth, err := NewAuthREST(testClientContainer(t, srv))
	require.NoError(t, err)

	profile, err := auth.FetchUserProfile(context.Background(), "u9")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Sam", profile.DisplayName)
}

func TestAuthRESTSessionExpiryDegradesToNil(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	auth, err := NewAuthREST(testClientContainer(t, srv))
	require.NoError(t, err)

	auth.api.SetToken("tok-stale")
	auth.session = &models.Session{
		Token:     "tok-stale",
		User:      models.AuthUser{ID: "u1"},
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	session, err := auth.Session(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Empty(t, auth.api.Token())

	// stays signed out on subsequent calls
	session, err = auth.Session(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestAuthRESTSessionLiveTokenSurvives(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	auth, err := NewAuthREST(testClientContainer(t, srv))
	require.NoError(t, err)

	auth.session = &models.Session{
		Token:     "tok-live",
		User:      models.AuthUser{ID: "u1"},
		ExpiresAt: time.Now().Add(time.Hour),
	}

	session, err := auth.Session(context.Background())
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "tok-live", session.Token)
}
