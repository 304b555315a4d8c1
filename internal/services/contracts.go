package services

import (
	"context"

	"starjar/internal/models"
)

type AuthStateEvent string

const (
	AuthStateSignedIn  AuthStateEvent = "SIGNED_IN"
	AuthStateSignedUp  AuthStateEvent = "SIGNED_UP"
	AuthStateSignedOut AuthStateEvent = "SIGNED_OUT"
)

// AuthStateListener is invoked synchronously whenever a local sign-in/up/out
// happens. session is nil for SIGNED_OUT.
type AuthStateListener func(event AuthStateEvent, session *models.Session)

type SignUpParams struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// AuthService is the authentication contract. Two implementations exist:
// AuthPostgres (direct-to-database) and AuthREST (remote HTTP). Which one the
// container hands out is decided once by configuration.
type AuthService interface {
	// Session returns the current session, or nil when signed out. The
	// postgres variant never fails; internal errors degrade to a nil session.
	Session(ctx context.Context) (*models.Session, error)
	// OnAuthStateChange registers a listener and returns an idempotent
	// unsubscribe for exactly that listener.
	OnAuthStateChange(listener AuthStateListener) (unsubscribe func())
	SignIn(ctx context.Context, email string, password string) (*models.Session, error)
	SignUp(ctx context.Context, params SignUpParams) (*models.Session, error)
	SignOut(ctx context.Context) error
	// FetchUserProfile resolves role/family/display name for a user id.
	FetchUserProfile(ctx context.Context, userID string) (*models.AuthUser, error)
}

// DataService is the data-access contract, mirrored by both backends. Every
// operation is scoped by familyID; cross-family reads and writes must be
// impossible regardless of the backend.
type DataService interface {
	FetchKidsWithPoints(ctx context.Context, familyID string) ([]models.Kid, error)
	FetchPendingActivities(ctx context.Context, familyID string) ([]models.PendingActivity, error)
	FetchDashboardStats(ctx context.Context, familyID string) (*models.DashboardStats, error)

	FetchActivities(ctx context.Context, familyID string) ([]models.Activity, error)
	CreateActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	UpdateActivity(ctx context.Context, id string, patch models.ActivityPatch) (*models.Activity, error)
	DeleteActivity(ctx context.Context, id string) error

	FetchRewards(ctx context.Context, familyID string) ([]models.Reward, error)
	CreateReward(ctx context.Context, reward *models.Reward) (*models.Reward, error)
	UpdateReward(ctx context.Context, id string, patch models.RewardPatch) (*models.Reward, error)
	DeleteReward(ctx context.Context, id string) error

	// FetchPointEntries lists entries newest-first; userID "" means the whole
	// family.
	FetchPointEntries(ctx context.Context, familyID string, userID string) ([]models.PointEntry, error)
	CreatePointEntry(ctx context.Context, entry *models.PointEntry) (*models.PointEntry, error)
	UpdatePointEntry(ctx context.Context, id string, patch models.PointEntryPatch) (*models.PointEntry, error)
	// ApprovePointEntry is the only sanctioned transition out of pending. It
	// is safe to call twice; the second call re-stamps.
	ApprovePointEntry(ctx context.Context, id string, approved bool, approvedBy string) (*models.PointEntry, error)

	FetchRewardRedemptions(ctx context.Context, familyID string, userID string) ([]models.RewardRedemption, error)
	CreateRewardRedemption(ctx context.Context, redemption *models.RewardRedemption) (*models.RewardRedemption, error)
	ApproveRewardRedemption(ctx context.Context, id string, approved bool, approvedBy string) (*models.RewardRedemption, error)
}

// SessionVerifier resolves a bearer token into the user it was issued to.
// The API server's authn middleware depends on this rather than on a concrete
// auth service.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*models.AuthUser, error)
}
