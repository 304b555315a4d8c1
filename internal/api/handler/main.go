package handler

import (
	"net/http"

	"starjar/internal/interfaces"
	"starjar/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "⭐")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		verifier, err := do.Invoke[services.SessionVerifier](cfg.Container)
		if err != nil {
			return nil, err
		}
		rateLimiter, err := do.Invoke[interfaces.Limiter](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)
		routesAPIv1.Use(Authn(verifier)) // Authn will NOT terminate unauthenticated requests.

		a := groupAuth{cfg.Container}
		credentialLimit := RateLimit(rateLimiter, "auth", redis_rate.PerMinute(10))
		routesAPIv1.POST("/auth/signin", a.SignIn, credentialLimit)
		routesAPIv1.POST("/auth/signup", a.SignUp, credentialLimit)
		routesAPIv1.POST("/auth/signout", a.SignOut)
		routesAPIv1.GET("/auth/me", a.Me)
		routesAPIv1.GET("/auth/profile/:userId", a.Profile)

		routesAPIv1Family := routesAPIv1.Group("/families/:familyId")
		{
			f := groupFamily{cfg.Container}
			routesAPIv1Family.GET("/kids-with-points", f.KidsWithPoints)
			routesAPIv1Family.GET("/pending-activities", f.PendingActivities)
			routesAPIv1Family.GET("/dashboard-stats", f.DashboardStats)
			routesAPIv1Family.GET("/leaderboard", f.Leaderboard)

			act := groupActivity{cfg.Container}
			routesAPIv1Family.GET("/activities", act.List)

			rw := groupReward{cfg.Container}
			routesAPIv1Family.GET("/rewards", rw.List)

			pe := groupPointEntry{cfg.Container}
			routesAPIv1Family.GET("/point-entries", pe.List)

			rr := groupRedemption{cfg.Container}
			routesAPIv1Family.GET("/reward-redemptions", rr.List)
		}

		act := groupActivity{cfg.Container}
		routesAPIv1.POST("/activities", act.Create)
		routesAPIv1.PUT("/activities/:id", act.Update)
		routesAPIv1.DELETE("/activities/:id", act.Delete)

		rw := groupReward{cfg.Container}
		routesAPIv1.POST("/rewards", rw.Create)
		routesAPIv1.PUT("/rewards/:id", rw.Update)
		routesAPIv1.DELETE("/rewards/:id", rw.Delete)

		pe := groupPointEntry{cfg.Container}
		routesAPIv1.POST("/point-entries", pe.Create)
		routesAPIv1.PUT("/point-entries/:id", pe.Update)
		routesAPIv1.POST("/point-entries/:id/approve", pe.Approve)

		rr := groupRedemption{cfg.Container}
		routesAPIv1.POST("/reward-redemptions", rr.Create)
		routesAPIv1.POST("/reward-redemptions/:id/approve", rr.Approve)
	}

	return r, nil
}
