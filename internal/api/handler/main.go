package handler

import (
	"net/http"

	"ziglet/internal/services"

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
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "ziglet-garden",
		})
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
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

		a := groupAuth{cfg.Container}
		routesAPIv1.POST("/auth/nonce", a.RequestNonce)
		routesAPIv1.POST("/auth/verify", a.Verify)

		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated request.

		g := groupGarden{cfg.Container}
		routesAPIv1.POST("/garden/visit", g.Visit)
		routesAPIv1.GET("/garden/state", g.GetState)

		t := groupTask{cfg.Container}
		routesAPIv1.GET("/tasks", t.List)
		routesAPIv1.POST("/tasks/complete", t.Complete)

		rw := groupReward{cfg.Container}
		routesAPIv1.GET("/rewards/history", rw.History)

		e := groupExternal{cfg.Container}
		routesAPIv1.POST("/external/verify", e.Verify)
	}

	return r, nil
}
