package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"starjar/internal/datastore"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// ResourceOwnership resolves which family owns the row an id addresses. The
// API server's by-id mutation guards depend on it to refuse writes against
// another family's rows before any data service runs.
type ResourceOwnership interface {
	ActivityFamily(ctx context.Context, id string) (string, error)
	RewardFamily(ctx context.Context, id string) (string, error)
	PointEntryFamily(ctx context.Context, id string) (string, error)
	RewardRedemptionFamily(ctx context.Context, id string) (string, error)
}

type OwnershipPostgres struct {
	container  *do.Injector
	postgresDB *bun.DB
}

func NewOwnershipPostgres(container *do.Injector) (*OwnershipPostgres, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	return &OwnershipPostgres{container: container, postgresDB: postgresDB}, nil
}

func (service *OwnershipPostgres) ActivityFamily(ctx context.Context, id string) (string, error) {
	activity, err := datastore.FindActivityByID(ctx, service.postgresDB, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: activity %s", ErrNotFound, id)
	}
	if err != nil {
		return "", err
	}

	return activity.FamilyID, nil
}

func (service *OwnershipPostgres) RewardFamily(ctx context.Context, id string) (string, error) {
	reward, err := datastore.FindRewardByID(ctx, service.postgresDB, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: reward %s", ErrNotFound, id)
	}
	if err != nil {
		return "", err
	}

	return reward.FamilyID, nil
}

func (service *OwnershipPostgres) PointEntryFamily(ctx context.Context, id string) (string, error) {
	entry, err := datastore.FindPointEntryByID(ctx, service.postgresDB, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: point entry %s", ErrNotFound, id)
	}
	if err != nil {
		return "", err
	}

	return entry.FamilyID, nil
}

func (service *OwnershipPostgres) RewardRedemptionFamily(ctx context.Context, id string) (string, error) {
	redemption, err := datastore.FindRewardRedemptionByID(ctx, service.postgresDB, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: reward redemption %s", ErrNotFound, id)
	}
	if err != nil {
		return "", err
	}

	return redemption.FamilyID, nil
}
