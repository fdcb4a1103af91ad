// Package main provides the entry point for the match outcome predictor.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/match-predictor/internal/api"
	"github.com/yourusername/match-predictor/internal/config"
	"github.com/yourusername/match-predictor/internal/corpus"
	"github.com/yourusername/match-predictor/internal/database"
	"github.com/yourusername/match-predictor/internal/datasource"
	"github.com/yourusername/match-predictor/internal/health"
	"github.com/yourusername/match-predictor/internal/logger"
	"github.com/yourusername/match-predictor/internal/metrics"
	"github.com/yourusername/match-predictor/internal/ml"
	"github.com/yourusername/match-predictor/internal/models"
	"github.com/yourusername/match-predictor/internal/predictor"
	"github.com/yourusername/match-predictor/internal/repository"
	"github.com/yourusername/match-predictor/internal/scheduler"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(serveCmd, predictCmd, trainCmd, statusCmd)

	predictCmd.Flags().String("home", "", "Home team name")
	predictCmd.Flags().String("away", "", "Away team name")
	predictCmd.Flags().String("date", "", "Fixture date (YYYY-MM-DD)")
	predictCmd.Flags().String("time", models.DefaultKickoff, "Kickoff time (HH:MM)")
	predictCmd.MarkFlagRequired("home")
	predictCmd.MarkFlagRequired("away")
	predictCmd.MarkFlagRequired("date")

	trainCmd.Flags().String("out", "", "Artifact output directory (default: first configured artifact dir)")
}

var rootCmd = &cobra.Command{
	Use:   "predictor",
	Short: "Match outcome prediction service",
	Long:  `Predicts win/draw/loss probabilities and indicative scorelines for football fixtures from rolling team form.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
			region := os.Getenv("AWS_REGION")
			secretName := os.Getenv("AWS_SECRET_NAME")
			if region == "" || secretName == "" {
				return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
			}
			if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
				return fmt.Errorf("failed to load secrets: %w", err)
			}
		}

		if err := config.Validate(cfg); err != nil {
			return err
		}

		appLog = logger.NewLogger(cfg.App.LogLevel)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// components bundles the wiring shared by the subcommands.
type components struct {
	historical *corpus.FileLoader
	schedule   *corpus.FileLoader
	registry   *ml.Registry
	trainer    *ml.Trainer
	cache      *predictor.ResultCache
	engine     *predictor.Engine
}

func buildComponents(store predictor.Store) (*components, error) {
	cutoff, err := cfg.TrainCutoffTime()
	if err != nil {
		return nil, err
	}

	historical := corpus.NewHistoricalLoader(cfg.Data.HistoricalPaths, appLog)
	schedule := corpus.NewScheduleLoader(cfg.Data.SchedulePaths, appLog)
	registry := ml.NewRegistry(cfg.Model.ID, cfg.Model.ArtifactDirs, appLog)
	trainer := ml.NewTrainer(ml.TrainerConfig{
		ModelID: cfg.Model.ID,
		Cutoff:  cutoff,
		Forest: ml.ForestConfig{
			Trees:           cfg.Model.Trees,
			MinSamplesSplit: cfg.Model.MinSamplesSplit,
			Seed:            cfg.Model.Seed,
		},
	}, appLog)

	var cache *predictor.ResultCache
	if cfg.Model.ResultCacheTTLSecs > 0 {
		cache = predictor.NewResultCache(time.Duration(cfg.Model.ResultCacheTTLSecs) * time.Second)
	}

	engine := predictor.NewEngine(historical, schedule, registry, trainer, cache, store, appLog)
	return &components{
		historical: historical,
		schedule:   schedule,
		registry:   registry,
		trainer:    trainer,
		cache:      cache,
		engine:     engine,
	}, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the prediction HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"git_commit":  GitCommit,
		"build_date":  BuildDate,
	}).Info("Match predictor starting")

	var (
		db    *database.DB
		store predictor.Store
		repo  repository.PredictionRepository
	)
	if cfg.HasDatabase() {
		var err error
		db, err = database.NewDB(ctx, cfg.GetDatabaseDSN(), cfg.Database.MaxConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		repo = repository.NewPostgresPredictionRepository(db)
		store = repo
		appLog.Info("Prediction store connected")
	} else {
		appLog.Info("No prediction store configured, predictions will not be persisted")
	}

	comps, err := buildComponents(store)
	if err != nil {
		return err
	}

	var dbPinger health.DatabasePinger
	if db != nil {
		dbPinger = db
	}
	healthServer := health.NewServer(cfg.App.Name, cfg.Server.HealthPort, dbPinger, appLog)
	healthServer.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := healthServer.Stop(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Failed to stop health server")
		}
	}()

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: metricsMux,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server listening")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		var fetcher *datasource.ScheduleFetcher
		if cfg.Scheduler.ScheduleRefreshCron != "" {
			httpLogger := log.New(os.Stdout, "schedule-fetch: ", log.LstdFlags)
			client := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), httpLogger)
			fetcher = datasource.NewScheduleFetcher(client, cfg.Data.ScheduleURL, cfg.Data.SchedulePaths[0], appLog)
		}

		sched = scheduler.NewScheduler(fetcher, comps.registry, comps.cache, appLog)
		if cfg.Scheduler.ScheduleRefreshCron != "" {
			if err := sched.ScheduleRefresh(cfg.Scheduler.ScheduleRefreshCron); err != nil {
				return err
			}
		}
		if cfg.Scheduler.RetrainCron != "" {
			if err := sched.ScheduleRetrain(cfg.Scheduler.RetrainCron); err != nil {
				return err
			}
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				appLog.WithError(err).Error("Failed to stop scheduler")
			}
		}()
	}

	// Warm the model so the first request does not pay the training cost.
	go func() {
		warmCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := warmModel(warmCtx, comps); err != nil {
			appLog.WithError(err).Warn("Model warm-up failed, first request will load lazily")
			healthServer.SetReady(true)
			return
		}
		healthServer.SetReady(true)
		appLog.Info("Model warmed")
	}()

	handler := api.NewHandler(comps.engine, repo, appLog)
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		appLog.WithField("port", cfg.Server.Port).Info("API server listening")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Fatal("API server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("API server shutdown failed")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Metrics server shutdown failed")
		}
	}

	appLog.Info("Match predictor stopped")
	return nil
}

func warmModel(ctx context.Context, comps *components) error {
	hist, err := comps.historical.Load(ctx)
	if err != nil {
		return err
	}
	_, err = comps.registry.GetOrLoad(ctx, func(ctx context.Context) (*ml.Artifact, error) {
		return comps.trainer.Train(ctx, hist)
	})
	return err
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict a single fixture from the command line",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, _ := cmd.Flags().GetString("home")
		away, _ := cmd.Flags().GetString("away")
		date, _ := cmd.Flags().GetString("date")
		kickoff, _ := cmd.Flags().GetString("time")

		comps, err := buildComponents(nil)
		if err != nil {
			return err
		}

		result, err := comps.engine.Predict(cmd.Context(), &models.Fixture{
			HomeTeam: home,
			AwayTeam: away,
			Date:     date,
			Time:     kickoff,
		})
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the classifier and save the artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("out")
		if outDir == "" {
			outDir = cfg.Model.ArtifactDirs[0]
		}

		comps, err := buildComponents(nil)
		if err != nil {
			return err
		}

		hist, err := comps.historical.Load(cmd.Context())
		if err != nil {
			return err
		}

		artifact, err := comps.trainer.Train(cmd.Context(), hist)
		if err != nil {
			return err
		}

		path, err := ml.SaveArtifact(outDir, artifact)
		if err != nil {
			return err
		}

		fmt.Printf("Model:     %s\n", artifact.ModelID)
		fmt.Printf("Accuracy:  %.4f\n", artifact.Accuracy)
		fmt.Printf("Precision: %.4f\n", artifact.Precision)
		fmt.Printf("Artifact:  %s\n", path)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus and model status",
	RunE: func(cmd *cobra.Command, args []string) error {
		comps, err := buildComponents(nil)
		if err != nil {
			return err
		}

		fmt.Printf("Model ID:       %s\n", cfg.Model.ID)
		fmt.Printf("Artifact dirs:  %v\n", cfg.Model.ArtifactDirs)
		fmt.Printf("Registry state: %s\n", comps.registry.State())

		for name, loader := range map[string]*corpus.FileLoader{
			"historical": comps.historical,
			"schedule":   comps.schedule,
		} {
			table, err := loader.Load(cmd.Context())
			if err != nil {
				fmt.Printf("Corpus %-10s unavailable: %v\n", name+":", err)
				continue
			}
			fmt.Printf("Corpus %-10s %d matches, %d teams, %d opponents\n",
				name+":", len(table.Records), len(table.Teams()), table.OpponentCodes.Len())
		}
		return nil
	},
}
