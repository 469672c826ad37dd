package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/brainmaxx/internal/config"
	"github.com/abhisek/brainmaxx/internal/corpus"
	"github.com/abhisek/brainmaxx/internal/llm"
	"github.com/abhisek/brainmaxx/internal/logger"
	"github.com/abhisek/brainmaxx/internal/provision"
	"github.com/abhisek/brainmaxx/internal/questiongen"
	"github.com/abhisek/brainmaxx/internal/seed"
	"github.com/abhisek/brainmaxx/internal/selection"
	"github.com/abhisek/brainmaxx/internal/store"
)

// app holds everything a command needs to serve questions.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	db        *store.Store
	cachePath string
	svc       *provision.Service
}

// openApp wires config, logging, storage, the corpus and the question
// service. Callers must Close the result.
func openApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	cachePath, err := resolveCachePath(cmd, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("resolve cache path: %w", err)
	}

	questions := corpus.New(corpus.Options{
		CachePath: cachePath,
		Records:   db.RecordRepo(),
		Seed:      seed.Subjects,
		Logger:    log,
	})
	questions.Load(ctx)

	var gen questiongen.Generator
	provider, err := llm.NewProvider(ctx, cfg.LLM, db.EventRepo(), log)
	if err != nil {
		log.Warn("question generation disabled", zap.Error(err))
	} else {
		gen = questiongen.New(provider, cfg.Credential(), questiongen.ConfigFrom(cfg.LLM))
	}

	svc := provision.New(provision.Options{
		Corpus:            questions,
		Policy:            selection.New(selection.WithTarget(cfg.Selection.Target)),
		Generator:         gen,
		Eligible:          cfg.Selection.Eligible,
		GeneratedEligible: cfg.Selection.GeneratedEligible,
		Prompt:            cfg.Selection.Prompt,
		Logger:            log,
	})

	log.Debug("app ready",
		zap.String("config", cfg.File),
		zap.String("db", dbPath),
		zap.String("cache", cachePath),
		zap.String("provider", cfg.LLM.Provider))

	return &app{cfg: cfg, log: log, db: db, cachePath: cachePath, svc: svc}, nil
}

func (a *app) Close() {
	_ = a.log.Sync()
	a.db.Close()
}

// openDB opens only the database, for commands that read history or events.
func openDB(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
