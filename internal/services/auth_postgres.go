package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"starjar/internal/datastore"
	"starjar/internal/datastore/redis_store"
	"starjar/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

// AuthPostgres is the embedded-backend variant of AuthService: credentials
// and profiles live in Postgres, issued sessions in redis. The instance holds
// the current session explicitly; nothing is read from ambient storage.
type AuthPostgres struct {
	container  *do.Injector
	postgresDB *bun.DB
	redisDB    redis.UniversalClient
	tokens     *TokenIssuer

	listeners authListeners

	mu      sync.RWMutex
	session *models.Session
}

func NewAuthPostgres(container *do.Injector) (*AuthPostgres, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	redisDB, err := do.Invoke[redis.UniversalClient](container)
	if err != nil {
		return nil, err
	}

	tokens, err := do.Invoke[*TokenIssuer](container)
	if err != nil {
		return nil, err
	}

	return &AuthPostgres{container: container, postgresDB: postgresDB, redisDB: redisDB, tokens: tokens}, nil
}

// Session never fails: an expired session degrades to nil.
func (service *AuthPostgres) Session(ctx context.Context) (*models.Session, error) {
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
		return nil, nil
	}

	return session, nil
}

func (service *AuthPostgres) OnAuthStateChange(listener AuthStateListener) func() {
	return service.listeners.add(listener)
}

func (service *AuthPostgres) SignIn(ctx context.Context, email string, password string) (*models.Session, error) {
	profile, err := datastore.FindUserProfileByEmail(ctx, service.postgresDB, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	session, err := service.issueSession(ctx, profile.AuthUser())
	if err != nil {
		return nil, err
	}

	service.setSession(session)
	service.listeners.fire(AuthStateSignedIn, session)
	return session, nil
}

// SignUp provisions the profile, and for parents a Family owned by the new
// user (family id = user id), in one transaction: the caller sees either both
// rows or an error.
func (service *AuthPostgres) SignUp(ctx context.Context, params SignUpParams) (*models.Session, error) {
	switch params.Role {
	case models.RoleParent, models.RoleKid, models.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, params.Role)
	}
	if params.Email == "" || params.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userID := uuid.NewString()
	profile := &models.UserProfile{
		UserID:       userID,
		Email:        strings.ToLower(params.Email),
		DisplayName:  params.DisplayName,
		Role:         params.Role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	err = service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if params.Role == models.RoleParent {
			familyID := userID
			profile.FamilyID = &familyID
			_, err := datastore.CreateFamily(ctx, tx, &models.Family{
				ID:        familyID,
				Name:      fmt.Sprintf("%s's Family", params.DisplayName),
				CreatedBy: userID,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			})
			if err != nil {
				return err
			}
		}

		_, err := datastore.CreateUserProfile(ctx, tx, profile)
		return err
	})
	if err != nil {
		return nil, err
	}

	session, err := service.issueSession(ctx, profile.AuthUser())
	if err != nil {
		return nil, err
	}

	service.setSession(session)
	service.listeners.fire(AuthStateSignedUp, session)
	return session, nil
}

// SignOut drops the store-side session, clears the local one and notifies
// listeners. Listeners are notified even when the store delete fails.
func (service *AuthPostgres) SignOut(ctx context.Context) error {
	service.mu.Lock()
	session := service.session
	service.session = nil
	service.mu.Unlock()

	var err error
	if session != nil {
		err = redis_store.DeleteSession(ctx, service.redisDB, session.Token)
	}

	service.listeners.fire(AuthStateSignedOut, nil)
	return err
}

// FetchUserProfile treats a missing profile row as non-fatal: the caller gets
// a profile-less AuthUser instead of an error.
func (service *AuthPostgres) FetchUserProfile(ctx context.Context, userID string) (*models.AuthUser, error) {
	profile, err := datastore.FindUserProfileByID(ctx, service.postgresDB, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.AuthUser{ID: userID}, nil
	}
	if err != nil {
		return nil, err
	}

	return profile.AuthUser(), nil
}

func (service *AuthPostgres) issueSession(ctx context.Context, user *models.AuthUser) (*models.Session, error) {
	token, expiresAt, err := service.tokens.CreateToken(user)
	if err != nil {
		return nil, err
	}

	session := &models.Session{Token: token, User: *user, ExpiresAt: expiresAt}
	if err := redis_store.SaveSession(ctx, service.redisDB, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (service *AuthPostgres) setSession(session *models.Session) {
	service.mu.Lock()
	service.session = session
	service.mu.Unlock()
}
