package handler

import (
	"fmt"
	"time"

	"starjar/internal/datastore/redis_store"
	"starjar/internal/models"
	"starjar/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

type groupAuth struct {
	container *do.Injector
}

// sessionPayload is the wire shape of sign-in/up responses; the remote client
// variant decodes exactly this.
type sessionPayload struct {
	User      models.AuthUser `json:"user"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (gr *groupAuth) SignIn(c echo.Context) error {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&payload); err != nil {
		return abort(c, fmt.Errorf("%w: %v", services.ErrInvalidInput, err))
	}

	auth, err := do.Invoke[services.AuthService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	session, err := auth.SignIn(c.Request().Context(), payload.Email, payload.Password)
	if err != nil {
		return respondData[sessionPayload](c, nil, err)
	}

	return respondData(c, &sessionPayload{
		User:      session.User,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}, nil)
}

func (gr *groupAuth) SignUp(c echo.Context) error {
	var params services.SignUpParams
	if err := c.Bind(&params); err != nil {
		return abort(c, fmt.Errorf("%w: %v", services.ErrInvalidInput, err))
	}

	auth, err := do.Invoke[services.AuthService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	session, err := auth.SignUp(c.Request().Context(), params)
	if err != nil {
		return respondData[sessionPayload](c, nil, err)
	}

	return respondData(c, &sessionPayload{
		User:      session.User,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}, nil)
}

// SignOut revokes the presented bearer token: the session row disappears from
// the store, so the verifier rejects the token from now on.
func (gr *groupAuth) SignOut(c echo.Context) error {
	if _, err := ResolveSession(c.Request().Context()); err != nil {
		return abort(c, err)
	}

	redisDB, err := do.Invoke[redis.UniversalClient](gr.container)
	if err != nil {
		return abort(c, err)
	}

	token := bearerToken(c)
	if err := redis_store.DeleteSession(c.Request().Context(), redisDB, token); err != nil {
		return abort(c, err)
	}

	return respondNoContent(c, nil)
}

func (gr *groupAuth) Me(c echo.Context) error {
	user, err := ResolveSession(c.Request().Context())
	if err != nil {
		return abort(c, err)
	}

	return respondData(c, user, nil)
}

func (gr *groupAuth) Profile(c echo.Context) error {
	if _, err := ResolveSession(c.Request().Context()); err != nil {
		return abort(c, err)
	}

	auth, err := do.Invoke[services.AuthService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	profile, err := auth.FetchUserProfile(c.Request().Context(), c.Param("userId"))
	return respondData(c, profile, err)
}
