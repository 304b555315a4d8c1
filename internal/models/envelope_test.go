package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeDataAndErrorExclusive(t *testing.T) {
	kid := Kid{UserID: "u1", DisplayName: "Alex", TotalPoints: 42}
	env := NewEnvelope(&kid)
	assert.Nil(t, env.Error)
	require.NotNil(t, env.Data)
	assert.Equal(t, "u1", env.Data.UserID)

	errEnv := NewEnvelopeError[Kid]("boom")
	assert.Nil(t, errEnv.Data)
	require.NotNil(t, errEnv.Error)
	assert.Equal(t, "boom", *errEnv.Error)
	require.NotNil(t, errEnv.Message)
	assert.Equal(t, "boom", *errEnv.Message)
}

func TestListEnvelopeCoercesNil(t *testing.T) {
	env := NewListEnvelope[Kid](nil)
	require.NotNil(t, env.Data)
	assert.Len(t, env.Data, 0)
	require.NotNil(t, env.Count)
	assert.Equal(t, 0, *env.Count)

	b, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[],"error":null,"count":0}`, string(b))
}

func TestListEnvelopeCount(t *testing.T) {
	env := NewListEnvelope([]Kid{{UserID: "a"}, {UserID: "b"}})
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)
	assert.Nil(t, env.Error)
}
