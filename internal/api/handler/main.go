package handler

import (
	"net/http"

	"ecopoints/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
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

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "🌱")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		serviceAuth, err := do.Invoke[*services.ServiceAuth](cfg.Container)
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
		routesAPIv1.Use(Authn(serviceAuth)) // Authn will NOT terminate unauthenticated request.
		routesAPIv1.GET("", Hello)

		routesAPIv1Auth := routesAPIv1.Group("/auth")
		{
			a := groupAuth{cfg.Container}
			routesAPIv1Auth.POST("/signup", a.SignUp)
			routesAPIv1Auth.POST("/signin", a.SignIn)
			routesAPIv1Auth.POST("/signout", a.SignOut)
		}

		s := groupStudent{cfg.Container}
		routesAPIv1.GET("/me", s.Me)
		routesAPIv1.GET("/levels", s.Levels)
		routesAPIv1.GET("/history", s.History)

		l := groupLeaderboard{cfg.Container}
		routesAPIv1.GET("/leaderboard", l.GetLeaderboard)

		p := groupPoints{cfg.Container}
		routesAPIv1.POST("/checkin", p.CheckIn)
		routesAPIv1.POST("/challenges/:id/complete", p.CompleteChallenge)
		routesAPIv1.GET("/products/:id/preview", p.Preview)
		routesAPIv1.POST("/products/:id/redeem", p.Redeem)
		routesAPIv1.POST("/rewards/:id/use", p.MarkUsed)

		ct := groupCatalog{cfg.Container}
		routesAPIv1.GET("/challenges", ct.GetChallenges)
		routesAPIv1.GET("/stores", ct.GetStores)
		routesAPIv1.GET("/stores/:id", ct.GetStore)
		routesAPIv1.GET("/products/:id", ct.GetProduct)
		routesAPIv1.GET("/events", ct.GetEvents)

		rw := groupReward{cfg.Container}
		routesAPIv1.GET("/rewards", rw.GetRewards)
		routesAPIv1.GET("/rewards/:id", rw.GetReward)
		routesAPIv1.GET("/rewards/:id/qr", rw.GetQRImage)
	}

	return r, nil
}

func Hello(c echo.Context) error {
	return httpx.RestAbort(c, "hello world", nil)
}
