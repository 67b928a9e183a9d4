package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"sojaprj/internal/config"
	"sojaprj/internal/crawler"
	"sojaprj/internal/db"
	"sojaprj/internal/export"
	"sojaprj/internal/extract"
	"sojaprj/internal/model"
	"sojaprj/internal/observability"
	"sojaprj/internal/pipeline"
	"sojaprj/internal/repository"
	"sojaprj/internal/runlock"
)

func runExport(ctx context.Context, cfg *config.Config, input string) error {
	runID := startRun(cfg, "export")

	w, err := export.New(cfg.OutputPath, cfg.CSVDelimiter, cfg.CSVEncoding)
	if err != nil {
		return finish(ctx, cfg, runID, pipeline.Report{}, err)
	}

	records, err := scrape(ctx, cfg, input)
	if err != nil {
		return finish(ctx, cfg, runID, pipeline.Report{}, err)
	}

	rep, err := pipeline.Export(w, records)
	return finish(ctx, cfg, runID, rep, err)
}

func runSync(ctx context.Context, cfg *config.Config, input string, dryRun bool) error {
	runID := startRun(cfg, "sync")

	if cfg.RedisURL != "" && !dryRun {
		lock, err := runlock.New(cfg.RedisURL, cfg.LockTTL)
		if err != nil {
			return finish(ctx, cfg, runID, pipeline.Report{}, err)
		}
		defer lock.Close()

		if err := lock.Acquire(ctx); err != nil {
			if errors.Is(err, runlock.ErrBusy) {
				rep := pipeline.Report{Outcome: pipeline.OutcomeNoop, Reason: err.Error()}
				return finish(ctx, cfg, runID, rep, nil)
			}
			return finish(ctx, cfg, runID, pipeline.Report{}, err)
		}
		defer func() {
			if err := lock.Release(context.Background()); err != nil {
				log.Printf("[Lock] %v", err)
			}
		}()
	}

	records, err := scrape(ctx, cfg, input)
	if err != nil {
		return finish(ctx, cfg, runID, pipeline.Report{}, err)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return finish(ctx, cfg, runID, pipeline.Report{}, fmt.Errorf("%w: %v", pipeline.ErrSinkUnavailable, err))
	}
	defer closeStore()

	rep, err := pipeline.Sync(ctx, store, records, dryRun)
	if err == nil && rep.Outcome == pipeline.OutcomeWritten {
		observability.ObserveMerge(rep.Counts)
	}
	return finish(ctx, cfg, runID, rep, err)
}

func runMigrate(ctx context.Context, cfg *config.Config) error {
	conn, err := openSQL(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := repository.EnsureSchema(ctx, conn, cfg.DatabaseDriver); err != nil {
		return err
	}
	log.Printf("[Repository] tabela preco_soja pronta (%s)", cfg.DatabaseDriver)
	return nil
}

func startRun(cfg *config.Config, command string) string {
	runID := uuid.NewString()
	log.Printf("[Run] %s iniciado (run %s)", command, runID)
	if cfg.MetricsPort != "" {
		observability.Start(cfg.MetricsPort)
	}
	return runID
}

func scrape(ctx context.Context, cfg *config.Config, input string) ([]model.PriceRecord, error) {
	markup, err := loadMarkup(ctx, cfg, input)
	if err != nil {
		return nil, err
	}

	res, err := extract.Extract(markup, extract.Options{FallbackToday: cfg.FallbackToday()})
	if err != nil {
		return nil, err
	}
	observability.RecordsExtracted.Add(float64(len(res.Records)))
	log.Printf("[Extract] %d linhas extraídas de %d linhas da tabela", len(res.Records), res.GridRows)
	return res.Records, nil
}

func loadMarkup(ctx context.Context, cfg *config.Config, input string) (string, error) {
	if input != "" {
		b, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("falha ao ler %s: %w", input, err)
		}
		return string(b), nil
	}

	opts := crawler.Options{
		UserAgent:      cfg.UserAgent,
		AcceptLanguage: cfg.AcceptLanguage,
		Timeout:        cfg.FetchTimeout,
	}
	if cfg.FetchMode == "chrome" {
		return crawler.FetchRendered(ctx, cfg.SourceURL, opts)
	}
	return crawler.Fetch(ctx, cfg.SourceURL, opts)
}

func openSQL(cfg *config.Config) (*sql.DB, error) {
	switch cfg.DatabaseDriver {
	case repository.DriverSQLite:
		return db.NewSQLite(cfg.DatabaseURL)
	case repository.DriverPostgres:
		return db.New(cfg.DatabaseURL)
	}
	return nil, fmt.Errorf("driver de banco desconhecido: %q", cfg.DatabaseDriver)
}

// openStore prepares the schema and returns the repository for the configured driver.
func openStore(ctx context.Context, cfg *config.Config) (pipeline.Store, func(), error) {
	conn, err := openSQL(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := repository.EnsureSchema(ctx, conn, cfg.DatabaseDriver); err != nil {
		conn.Close()
		return nil, nil, err
	}

	if cfg.DatabaseDriver == repository.DriverSQLite {
		repo := &repository.SQLitePriceRepository{DB: conn, SourceTag: cfg.SourceTag}
		return repo, func() { conn.Close() }, nil
	}

	// lib/pq só cria o schema; o merge usa o pool pgx por causa do CopyFrom
	conn.Close()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	repo := &repository.PriceRepository{DB: pool, SourceTag: cfg.SourceTag}
	return repo, pool.Close, nil
}

func finish(ctx context.Context, cfg *config.Config, runID string, rep pipeline.Report, err error) error {
	outcome := string(rep.Outcome)
	if err != nil {
		outcome = "error"
		log.Printf("[Run] falha (run %s): %v", runID, err)
	} else {
		log.Printf("[Run] %s (run %s)", rep, runID)
		fmt.Println(rep)
	}
	observability.ObserveRun(outcome)

	if cfg.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if perr := observability.Push(pushCtx, cfg.PushgatewayURL, runID); perr != nil {
			log.Printf("[Metrics] falha ao enviar métricas: %v", perr)
		}
	}
	return err
}
