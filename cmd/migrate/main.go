package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"starjar/internal/datastore"
	"starjar/internal/models"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandSeed(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableFamily(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableUserProfile(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableActivity(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableReward(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTablePointEntry(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableRewardRedemption(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

// commandSeed inserts a demo family: one parent, two kids, a handful of
// activities and rewards. Meant for local development only.
func commandSeed() *cli.Command {
	return &cli.Command{
		Name: "seed",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "password",
				Value: "changeme",
				Usage: "password for the seeded accounts",
			},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(c.String("password")), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			parentID := uuid.NewString()
			now := time.Now()

			family, err := datastore.CreateFamily(ctx, db, &models.Family{
				ID:        parentID,
				Name:      "Demo Family",
				CreatedBy: parentID,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return err
			}

			_, err = datastore.CreateUserProfile(ctx, db, &models.UserProfile{
				UserID:       parentID,
				Email:        "parent@example.com",
				DisplayName:  "Demo Parent",
				Role:         models.RoleParent,
				FamilyID:     &family.ID,
				PasswordHash: string(hash),
				CreatedAt:    now,
				UpdatedAt:    now,
			})
			if err != nil {
				return err
			}

			for _, name := range []string{"Alex", "Sam"} {
				_, err = datastore.CreateUserProfile(ctx, db, &models.UserProfile{
					UserID:       uuid.NewString(),
					Email:        fmt.Sprintf("%s@example.com", name),
					DisplayName:  name,
					Role:         models.RoleKid,
					FamilyID:     &family.ID,
					PasswordHash: string(hash),
					CreatedAt:    now,
					UpdatedAt:    now,
				})
				if err != nil {
					return err
				}
			}

			activities := []models.Activity{
				{Name: "Make the bed", Category: models.CategoryObligation, Points: 5},
				{Name: "Read for 30 minutes", Category: models.CategoryNiceToHave, Points: 10, RequiresApproval: true},
				{Name: "Screen time past bedtime", Category: models.CategoryForbidden, Points: -15},
			}
			for _, activity := range activities {
				activity.ID = uuid.NewString()
				activity.FamilyID = family.ID
				activity.CreatedBy = parentID
				activity.CreatedAt = now
				activity.UpdatedAt = now
				if _, err := datastore.CreateActivity(ctx, db, &activity); err != nil {
					return err
				}
			}

			rewards := []models.Reward{
				{Name: "Movie night pick", PointCost: 50},
				{Name: "Ice cream trip", PointCost: 30},
			}
			for _, reward := range rewards {
				reward.ID = uuid.NewString()
				reward.FamilyID = family.ID
				reward.CreatedBy = parentID
				reward.CreatedAt = now
				reward.UpdatedAt = now
				if _, err := datastore.CreateReward(ctx, db, &reward); err != nil {
					return err
				}
			}

			fmt.Println("Seed success, family:", family.ID)

			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}
