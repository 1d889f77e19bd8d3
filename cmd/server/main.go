package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rms-collector/backend/internal/api"
	"github.com/rms-collector/backend/internal/config"
	"github.com/rms-collector/backend/internal/ingest"
	"github.com/rms-collector/backend/internal/refdata"
	"github.com/rms-collector/backend/internal/submit"
	"github.com/rms-collector/backend/internal/workflow"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := os.Getenv("COLLECTOR_CONFIG")
	if configPath == "" {
		configPath = "collector.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Workflow engine wiring
	workflows := workflow.NewManager(cfg.Workflow, cfg.Sessions.MaxWorkflows)
	adapter := ingest.NewAdapter(ingest.NewXLSXDecoder())
	orch := submit.NewOrchestrator(submit.NewClient(cfg.Remote))
	ref := refdata.NewStaticSource()

	h := api.NewHandler(workflows, adapter, orch, ref, Version)

	// Background cleanup of aged workflow sessions
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Sessions.CleanupIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			workflows.CleanupOldWorkflows(time.Duration(cfg.Sessions.TimeoutMinutes) * time.Minute)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.ErrorHandler

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return strings.HasSuffix(path, "/state") ||
				strings.HasSuffix(path, "/state/msgpack") ||
				path == "/api/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, h)

	s := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.BindAddress, cfg.Server.Port),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("Road Survey Collector %s (built %s)\n", Version, BuildTime)
	fmt.Printf("Remote service: %s\n", cfg.Remote.Endpoint)
	fmt.Printf("Listening on http://%s\n", s.Addr)

	e.Logger.Fatal(e.StartServer(s))
}
