package services

import (
	"testing"
	"time"

	"starjar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("secret")
	require.NoError(t, err)

	familyID := "fam-1"
	user := &models.AuthUser{
		ID:          "user-1",
		Email:       "parent@example.com",
		DisplayName: "Parent",
		Role:        models.RoleParent,
		FamilyID:    &familyID,
	}

	token, expiresAt, err := issuer.CreateToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(SESSION_TTL), expiresAt, time.Minute)

	got, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	issuer, err := NewTokenIssuer("secret-a")
	require.NoError(t, err)

	token, _, err := issuer.CreateToken(&models.AuthUser{ID: "u"})
	require.NoError(t, err)

	other, err := NewTokenIssuer("secret-b")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	issuer, err := NewTokenIssuer("secret")
	require.NoError(t, err)

	_, err = issuer.Validate("not-a-token")
	assert.Error(t, err)
}
