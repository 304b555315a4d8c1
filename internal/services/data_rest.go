package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"starjar/internal/models"
	"starjar/internal/pkg/restapi"

	"github.com/samber/do"
)

// DataREST is the remote-HTTP variant of DataService: one request per call,
// bearer token replayed from the shared client, responses decoded from the
// wire envelopes.
type DataREST struct {
	api *restapi.Client
}

func NewDataREST(container *do.Injector) (*DataREST, error) {
	api, err := do.Invoke[*restapi.Client](container)
	if err != nil {
		return nil, err
	}

	return &DataREST{api: api}, nil
}

func familyPath(familyID string, resource string) string {
	return fmt.Sprintf("/families/%s/%s", url.PathEscape(familyID), resource)
}

func (service *DataREST) FetchKidsWithPoints(ctx context.Context, familyID string) ([]models.Kid, error) {
	return restList[models.Kid](ctx, service.api, familyPath(familyID, "kids-with-points"))
}

func (service *DataREST) FetchPendingActivities(ctx context.Context, familyID string) ([]models.PendingActivity, error) {
	return restList[models.PendingActivity](ctx, service.api, familyPath(familyID, "pending-activities"))
}

func (service *DataREST) FetchDashboardStats(ctx context.Context, familyID string) (*models.DashboardStats, error) {
	return restOne[models.DashboardStats](ctx, service.api, http.MethodGet, familyPath(familyID, "dashboard-stats"), nil)
}

func (service *DataREST) FetchActivities(ctx context.Context, familyID string) ([]models.Activity, error) {
	return restList[models.Activity](ctx, service.api, familyPath(familyID, "activities"))
}

func (service *DataREST) CreateActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	return restOne[models.Activity](ctx, service.api, http.MethodPost, "/activities", activity)
}

func (service *DataREST) UpdateActivity(ctx context.Context, id string, patch models.ActivityPatch) (*models.Activity, error) {
	return restOne[models.Activity](ctx, service.api, http.MethodPut, "/activities/"+url.PathEscape(id), patch)
}

// DeleteActivity surfaces whatever the endpoint returns; the remote variant
// makes no promise about deleting ids that never existed.
func (service *DataREST) DeleteActivity(ctx context.Context, id string) error {
	return restNoContent(ctx, service.api, http.MethodDelete, "/activities/"+url.PathEscape(id), nil)
}

func (service *DataREST) FetchRewards(ctx context.Context, familyID string) ([]models.Reward, error) {
	return restList[models.Reward](ctx, service.api, familyPath(familyID, "rewards"))
}

func (service *DataREST) CreateReward(ctx context.Context, reward *models.Reward) (*models.Reward, error) {
	return restOne[models.Reward](ctx, service.api, http.MethodPost, "/rewards", reward)
}

func (service *DataREST) UpdateReward(ctx context.Context, id string, patch models.RewardPatch) (*models.Reward, error) {
	return restOne[models.Reward](ctx, service.api, http.MethodPut, "/rewards/"+url.PathEscape(id), patch)
}

func (service *DataREST) DeleteReward(ctx context.Context, id string) error {
	return restNoContent(ctx, service.api, http.MethodDelete, "/rewards/"+url.PathEscape(id), nil)
}

func (service *DataREST) FetchPointEntries(ctx context.Context, familyID string, userID string) ([]models.PointEntry, error) {
	path := familyPath(familyID, "point-entries")
	if userID != "" {
		path += "?user_id=" + url.QueryEscape(userID)
	}
	return restList[models.PointEntry](ctx, service.api, path)
}

func (service *DataREST) CreatePointEntry(ctx context.Context, entry *models.PointEntry) (*models.PointEntry, error) {
	return restOne[models.PointEntry](ctx, service.api, http.MethodPost, "/point-entries", entry)
}

func (service *DataREST) UpdatePointEntry(ctx context.Context, id string, patch models.PointEntryPatch) (*models.PointEntry, error) {
	return restOne[models.PointEntry](ctx, service.api, http.MethodPut, "/point-entries/"+url.PathEscape(id), patch)
}

func (service *DataREST) ApprovePointEntry(ctx context.Context, id string, approved bool, approvedBy string) (*models.PointEntry, error) {
	return restOne[models.PointEntry](ctx, service.api, http.MethodPost, "/point-entries/"+url.PathEscape(id)+"/approve", map[string]any{
		"approved":   approved,
		"approvedBy": approvedBy,
	})
}

func (service *DataREST) FetchRewardRedemptions(ctx context.Context, familyID string, userID string) ([]models.RewardRedemption, error) {
	path := familyPath(familyID, "reward-redemptions")
	if userID != "" {
		path += "?user_id=" + url.QueryEscape(userID)
	}
	return restList[models.RewardRedemption](ctx, service.api, path)
}

func (service *DataREST) CreateRewardRedemption(ctx context.Context, redemption *models.RewardRedemption) (*models.RewardRedemption, error) {
	return restOne[models.RewardRedemption](ctx, service.api, http.MethodPost, "/reward-redemptions", redemption)
}

func (service *DataREST) ApproveRewardRedemption(ctx context.Context, id string, approved bool, approvedBy string) (*models.RewardRedemption, error) {
	return restOne[models.RewardRedemption](ctx, service.api, http.MethodPost, "/reward-redemptions/"+url.PathEscape(id)+"/approve", map[string]any{
		"approved":   approved,
		"approvedBy": approvedBy,
	})
}
