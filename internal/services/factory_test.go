package services

import (
	"testing"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restConfig() Config {
	return Config{
		Backend:    BackendREST,
		RedisURL:   "redis://localhost:6379/0",
		JWTSecret:  "secret",
		APIBaseURL: "http://localhost:9999",
		APIKey:     "key",
	}
}

func TestContainerRejectsUnknownBackend(t *testing.T) {
	cfg := restConfig()
	cfg.Backend = "sqlite"
	container := NewContainer(cfg)

	_, err := do.Invoke[AuthService](container)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = do.Invoke[DataService](container)
	assert.Error(t, err)
}

func TestContainerRESTRequiresEndpoint(t *testing.T) {
	cfg := restConfig()
	cfg.APIBaseURL = ""
	container := NewContainer(cfg)

	_, err := do.Invoke[AuthService](container)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestContainerMemoizesServices(t *testing.T) {
	container := NewContainer(restConfig())

	first, err := do.Invoke[DataService](container)
	require.NoError(t, err)

	second, err := do.Invoke[DataService](container)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestContainerSharesClientBetweenServices(t *testing.T) {
	container := NewContainer(restConfig())

	auth, err := do.Invoke[AuthService](container)
	require.NoError(t, err)
	data, err := do.Invoke[DataService](container)
	require.NoError(t, err)

	// the bearer token set at sign-in must be visible to data calls
	assert.Same(t, auth.(*AuthREST).api, data.(*DataREST).api)
}

func TestReset(t *testing.T) {
	container := NewContainer(restConfig())

	before, err := do.Invoke[DataService](container)
	require.NoError(t, err)

	fresh, err := Reset(container)
	require.NoError(t, err)

	after, err := do.Invoke[DataService](fresh)
	require.NoError(t, err)

	assert.NotSame(t, before, after)

	cfg, err := do.Invoke[Config](fresh)
	require.NoError(t, err)
	assert.Equal(t, restConfig(), cfg)
}
