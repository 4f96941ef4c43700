package main

import (
	"context"
	"errors"
	"os"

	"github.com/Conorjs98/fantasy-dashboard/internal/config"
	"github.com/Conorjs98/fantasy-dashboard/internal/league"
	"github.com/Conorjs98/fantasy-dashboard/internal/mcp"
	"github.com/Conorjs98/fantasy-dashboard/internal/sleeper"
	"github.com/Conorjs98/fantasy-dashboard/internal/store"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})
	// stdout carries the MCP protocol
	logger.SetOutput(os.Stderr)

	if err := godotenv.Load(); err != nil {
		logger.WithError(err).Debug("No .env file loaded")
	}

	cfg, err := config.New()
	if err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithError(err).Warn("Unknown LOG_LEVEL, using info")
	} else {
		logger.SetLevel(level)
	}

	opts := []sleeper.Option{sleeper.WithTimeout(cfg.Sleeper.Timeout)}
	if cfg.Sleeper.BaseURL != "" {
		opts = append(opts, sleeper.WithBaseURL(cfg.Sleeper.BaseURL))
	}
	sleeperClient := sleeper.NewHTTPClient(logger, opts...)

	settings, err := config.LoadLeagueSettings(cfg.LeagueSettingsPath)
	if err != nil {
		logger.WithError(err).Warn("Failed to load league settings, using defaults")
		settings = config.DefaultLeagueConfig()
	}

	ctx := context.Background()
	st := openStore(ctx, cfg, logger)
	defer st.Close()

	leagueService := league.NewService(sleeperClient, logger, league.Options{
		Ranking:             cfg.Rankings.Ranking(),
		DefaultPlayoffTeams: cfg.Rankings.DefaultPlayoffTeams,
		FetchConcurrency:    cfg.Sleeper.FetchConcurrency,
		Settings:            settings,
	})

	mcpServer := mcp.NewFantasyMCPServer(logger, mcp.Dependencies{
		League:          leagueService,
		Store:           st,
		DefaultLeagueID: cfg.Sleeper.LeagueID,
	})
	if mcpServer == nil {
		logger.Fatal("Failed to create MCP server")
	}

	logger.WithField("league_id", cfg.Sleeper.LeagueID).Info("Starting Fantasy Dashboard MCP Server...")

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.WithError(err).Error("Server failed to start")
		st.Close()
		os.Exit(1)
	}
}

// openStore connects to Postgres when a database URL is configured and
// falls back to an in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) store.Store {
	pg, err := store.NewPostgres(ctx, cfg.Database.ConnString(), logger)
	if err != nil {
		if !errors.Is(err, store.ErrNotConfigured) {
			logger.WithError(err).Fatal("Failed to connect to database")
		}
		logger.Warn("No database configured, recaps and manager notes are kept in memory")
		return store.NewMemory()
	}

	if err := pg.InitSchema(ctx); err != nil {
		pg.Close()
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	return pg
}
