package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"starjar/internal/api/handler"
	"starjar/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
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
	vs, err := env.EnvsRequired(
		"DB_DSN",
		"REDIS_URL",
		"JWT_SECRET",
	)
	if err != nil {
		log.Fatal(err)
	}

	backend := os.Getenv("STARJAR_BACKEND")
	if backend == "" {
		backend = services.BackendPostgres
	}

	container := services.NewContainer(services.Config{
		Backend:          backend,
		DatabaseDSN:      vs["DB_DSN"],
		DatabasePassword: os.Getenv("DB_PASSWORD"),
		RedisURL:         vs["REDIS_URL"],
		JWTSecret:        vs["JWT_SECRET"],
		APIBaseURL:       os.Getenv("API_BASE_URL"),
		APIKey:           os.Getenv("API_KEY"),
	})

	app := &cli.App{
		Name: "api",
		Commands: []*cli.Command{
			commandServer(container),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandServer(container *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "start the web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: "0.0.0.0:8080",
				Usage: "serve address",
			},
		},
		Action: func(c *cli.Context) error {
			mode := os.Getenv("API_MODE")
			if mode == "" {
				mode = "production"
			}
			origins := os.Getenv("API_ORIGINS")
			if origins == "" {
				origins = "*"
			}

			router, err := handler.New(&handler.Config{
				Container: container,
				Mode:      mode,
				Origins:   strings.Split(origins, ","),
			})
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:    c.String("addr"),
				Handler: router,
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errWg, errCtx := errgroup.WithContext(ctx)

			errWg.Go(func() error {
				log.Printf("ListenAndServe: %s (%s)\n", c.String("addr"), mode)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return err
				}
				return nil
			})

			errWg.Go(func() error {
				<-errCtx.Done()
				return srv.Shutdown(context.TODO())
			})

			return errWg.Wait()
		},
	}
}
