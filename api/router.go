// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"ast3wart/clutchcam-api/middleware"
	"ast3wart/clutchcam-api/service"

	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

type API struct {
	Router  *gin.Engine
	Store   *service.Store
	Jobs    *service.Analyzer
	Trimmer *service.Trimmer
}

func NewRouter() (*API, error) {
	makeLogger()

	store, err := service.NewStore(viper.GetString("storage.input_dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize asset store, %w", err)
	}

	runner, err := service.NewRunner(
		viper.GetString("tools.python_path"),
		viper.GetString("tools.script_dir"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tool runner, %w", err)
	}

	trimmer, err := service.NewTrimmer(store, runner,
		viper.GetString("tools.trimmer"),
		viper.GetString("storage.output_dir"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize trimmer, %w", err)
	}

	a := &API{
		Store:   store,
		Jobs:    service.NewAnalyzer(store, runner, viper.GetString("tools.analyzer")),
		Trimmer: trimmer,
	}

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("cors.allowed_origins"),
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Range"},
			ExposeHeaders:    []string{"Content-Length", "Content-Range", "Accept-Ranges"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	a.Router.MaxMultipartMemory = 5 << 20

	a.registerRoutes()

	return a, nil
}

func (a *API) registerRoutes() {
	maxUploadSize := viper.GetInt64("upload.max_size")

	main := a.Router.Group("/api")
	{
		// GET /api/health		-> Reports the server is alive
		main.GET("/health", a.Health)

		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)
	}

	assets := main.Group("/assets")
	{
		// POST /api/assets		-> Uploads a new video and writes its sidecar
		assets.POST("", middleware.BodySizeLimiter(maxUploadSize), a.AssetUpload)

		// GET /api/assets/:id		-> Returns asset metadata plus a stream URL
		assets.GET("/:id", a.AssetFetch)

		// GET /api/assets/:id/stream	-> Streams the media file, range-aware
		assets.GET("/:id/stream", a.AssetStream)

		// DELETE /api/assets/:id	-> Deletes media + sidecar, idempotent
		assets.DELETE("/:id", a.AssetDelete)
	}

	analysis := main.Group("/analysis")
	{
		// POST /api/analysis/:assetID		-> Starts a background analysis job
		analysis.POST("/:assetID", a.AnalysisStart)

		// GET /api/analysis/status/:jobID	-> Returns the current job record
		analysis.GET("/status/:jobID", a.AnalysisStatus)
	}

	// POST /api/trim		-> Cuts a sub-clip out of an asset
	main.POST("/trim", a.TrimCreate)

	// GET /api/outputs/:filename	-> Serves a trimmed output for download
	main.GET("/outputs/:filename", a.OutputServe)
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
