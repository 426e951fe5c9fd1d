package main

import (
	"context"
	"fmt"
	"os"

	"spendbook/internal/cli"
	"spendbook/internal/export"
	applog "spendbook/internal/log"
	"spendbook/internal/services"
	"spendbook/internal/shell"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return 1
	}

	logger, closeLog, err := cli.SetupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup logging: %v\n", err)
		return 1
	}
	defer closeLog()

	ctx := context.Background()
	repo, err := cli.InitStorage(ctx, logger, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Database is not available: %v\n", err)
		return 1
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close database", applog.FieldError, err)
		}
	}()

	categories := services.NewCategoryService(repo)
	sh := shell.New(os.Stdin, os.Stdout, shell.Deps{
		Categories: categories,
		Expenses:   services.NewExpenseService(repo, categories),
		Reports:    services.NewReportService(repo, repo, export.New(cfg.ExportDir)),
		Logger:     logger,
	})

	if err := sh.Run(ctx); err != nil {
		logger.Error("Shell stopped with error", applog.FieldError, err)
		return 1
	}
	return 0
}
