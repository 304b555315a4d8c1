package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"starjar/internal/interfaces"
	"starjar/internal/models"
	"starjar/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	users map[string]*models.AuthUser
}

func (v *fakeVerifier) Verify(ctx context.Context, token string) (*models.AuthUser, error) {
	user, ok := v.users[token]
	if !ok {
		return nil, fmt.Errorf("unknown token")
	}
	return user, nil
}

type fakeLimiter struct{}

func (fakeLimiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) error {
	return nil
}

type fakeAuth struct {
	services.AuthService
}

func (a *fakeAuth) SignIn(ctx context.Context, email string, password string) (*models.Session, error) {
	if password != "correct" {
		return nil, services.ErrInvalidCredentials
	}
	return &models.Session{
		Token:     "tok-parent",
		User:      models.AuthUser{ID: "p1", Email: email, Role: models.RoleParent},
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

// fakeOwnership maps resource ids to owning family ids, regardless of kind.
type fakeOwnership struct {
	families map[string]string
}

func (o *fakeOwnership) family(id string) (string, error) {
	familyID, ok := o.families[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", services.ErrNotFound, id)
	}
	return familyID, nil
}

func (o *fakeOwnership) ActivityFamily(ctx context.Context, id string) (string, error) {
	return o.family(id)
}

func (o *fakeOwnership) RewardFamily(ctx context.Context, id string) (string, error) {
	return o.family(id)
}

func (o *fakeOwnership) PointEntryFamily(ctx context.Context, id string) (string, error) {
	return o.family(id)
}

func (o *fakeOwnership) RewardRedemptionFamily(ctx context.Context, id string) (string, error) {
	return o.family(id)
}

type fakeData struct {
	services.DataService
	approved []string
	deleted  []string
}

func (d *fakeData) DeleteActivity(ctx context.Context, id string) error {
	d.deleted = append(d.deleted, id)
	return nil
}

func (d *fakeData) FetchKidsWithPoints(ctx context.Context, familyID string) ([]models.Kid, error) {
	return []models.Kid{
		{UserID: "k1", DisplayName: "Alex", TotalPoints: 30},
		{UserID: "k2", DisplayName: "Sam", TotalPoints: 0},
	}, nil
}

func (d *fakeData) ApprovePointEntry(ctx context.Context, id string, approved bool, approvedBy string) (*models.PointEntry, error) {
	d.approved = append(d.approved, id+":"+approvedBy)
	now := time.Now()
	return &models.PointEntry{ID: id, Status: models.StatusApproved, ApprovedAt: &now, ApprovedBy: &approvedBy}, nil
}

func newTestRouter(t *testing.T, data services.DataService) http.Handler {
	t.Helper()

	famParent := "fam-1"
	famOther := "fam-2"
	verifier := &fakeVerifier{users: map[string]*models.AuthUser{
		"tok-parent":   {ID: "p1", Role: models.RoleParent, FamilyID: &famParent},
		"tok-kid":      {ID: "k1", Role: models.RoleKid, FamilyID: &famParent},
		"tok-outsider": {ID: "p2", Role: models.RoleParent, FamilyID: &famOther},
	}}

	container := do.New()
	do.ProvideValue[services.SessionVerifier](container, verifier)
	do.ProvideValue[interfaces.Limiter](container, fakeLimiter{})
	do.ProvideValue[services.AuthService](container, &fakeAuth{})
	do.ProvideValue[services.DataService](container, data)
	do.ProvideValue[services.ResourceOwnership](container, &fakeOwnership{families: map[string]string{
		"pe-1":  "fam-1",
		"act-1": "fam-1",
		"rw-1":  "fam-1",
		"rd-1":  "fam-1",
	}})

	router, err := New(&Config{Container: container, Origins: []string{"*"}})
	require.NoError(t, err)
	return router
}

func doRequest(router http.Handler, method string, path string, token string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSignInEnvelope(t *testing.T) {
	router := newTestRouter(t, &fakeData{})

	rec := doRequest(router, http.MethodPost, "/api/v1/auth/signin", "", `{"email":"p@example.com","password":"correct"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var env models.Envelope[struct {
		User  models.AuthUser `json:"user"`
		Token string          `json:"token"`
	}]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Nil(t, env.Error)
	require.NotNil(t, env.Data)
	assert.Equal(t, "tok-parent", env.Data.Token)
	assert.Equal(t, "p1", env.Data.User.ID)
}

func TestSignInRejected(t *testing.T) {
	router := newTestRouter(t, &fakeData{})

	rec := doRequest(router, http.MethodPost, "/api/v1/auth/signin", "", `{"email":"p@example.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var env models.Envelope[json.RawMessage]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, services.ErrInvalidCredentials.Error(), *env.Error)
}

func TestKidsWithPointsRequiresSession(t *testing.T) {
	router := newTestRouter(t, &fakeData{})

	rec := doRequest(router, http.MethodGet, "/api/v1/families/fam-1/kids-with-points", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestKidsWithPointsFamilyGuard(t *testing.T) {
	router := newTestRouter(t, &fakeData{})

	rec := doRequest(router, http.MethodGet, "/api/v1/families/fam-1/kids-with-points", "tok-outsider", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestKidsWithPointsListEnvelope(t *testing.T) {
	router := newTestRouter(t, &fakeData{})

	rec := doRequest(router, http.MethodGet, "/api/v1/families/fam-1/kids-with-points", "tok-parent", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var env models.ListEnvelope[models.Kid]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Nil(t, env.Error)
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)
	require.Len(t, env.Data, 2)
	assert.Equal(t, 0, env.Data[1].TotalPoints)
}

func TestApproveRequiresParent(t *testing.T) {
	data := &fakeData{}
	router := newTestRouter(t, data)

	rec := doRequest(router, http.MethodPost, "/api/v1/point-entries/pe-1/approve", "tok-kid", `{"approved":true}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, data.approved)
}

func TestApproveDefaultsApprover(t *testing.T) {
	data := &fakeData{}
	router := newTestRouter(t, data)

	rec := doRequest(router, http.MethodPost, "/api/v1/point-entries/pe-1/approve", "tok-parent", `{"approved":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"pe-1:p1"}, data.approved)

	var env models.Envelope[models.PointEntry]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Data)
	assert.Equal(t, models.StatusApproved, env.Data.Status)
}

func TestApproveRefusesOtherFamily(t *testing.T) {
	data := &fakeData{}
	router := newTestRouter(t, data)

	rec := doRequest(router, http.MethodPost, "/api/v1/point-entries/pe-1/approve", "tok-outsider", `{"approved":true}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, data.approved)
}

func TestApproveUnknownEntry(t *testing.T) {
	data := &fakeData{}
	router := newTestRouter(t, data)

	rec := doRequest(router, http.MethodPost, "/api/v1/point-entries/pe-missing/approve", "tok-parent", `{"approved":true}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, data.approved)
}

func TestDeleteActivityRefusesOtherFamily(t *testing.T) {
	data := &fakeData{}
	router := newTestRouter(t, data)

	rec := doRequest(router, http.MethodDelete, "/api/v1/activities/act-1", "tok-outsider", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, data.deleted)
}

func TestDeleteActivityOwnFamily(t *testing.T) {
	data := &fakeData{}
	router := newTestRouter(t, data)

	rec := doRequest(router, http.MethodDelete, "/api/v1/activities/act-1", "tok-parent", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"act-1"}, data.deleted)
}

func TestUpdateRewardRefusesOtherFamily(t *testing.T) {
	router := newTestRouter(t, &fakeData{})

	rec := doRequest(router, http.MethodPut, "/api/v1/rewards/rw-1", "tok-outsider", `{"point_cost":5}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestApproveRedemptionRefusesOtherFamily(t *testing.T) {
	router := newTestRouter(t, &fakeData{})

	rec := doRequest(router, http.MethodPost, "/api/v1/reward-redemptions/rd-1/approve", "tok-outsider", `{"approved":true}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestInvalidTokenAborts(t *testing.T) {
	router := newTestRouter(t, &fakeData{})

	rec := doRequest(router, http.MethodGet, "/api/v1/families/fam-1/kids-with-points", "tok-forged", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
