package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"kelime/internal/config"
	"kelime/internal/database"
	"kelime/internal/logging"
	"kelime/internal/service"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")

	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Clear existing data before import (WARNING: destructive)")
	importYes := importCmd.Bool("yes", false, "Skip the confirmation prompt for -clear")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", slog.Any("error", err))
	}
	cfg, err := config.Load("./configs")
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.IsDev(), cfg.LogLevel)

	if cfg.StoreBackend != config.BackendSQL {
		logger.Error("Backups need the sql store backend", slog.String("store_backend", cfg.StoreBackend))
		os.Exit(1)
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(); err != nil {
		logger.Error("Failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	backupService := service.NewBackupService(db, logger)
	ctx := context.Background()

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		err = handleExport(ctx, backupService, *exportOutput, logger)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		err = handleImport(ctx, backupService, *importInput, *importClear, *importYes, logger)

	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("Backup command failed", slog.String("command", os.Args[1]), slog.Any("error", err))
		db.Close()
		os.Exit(1)
	}
}

func handleExport(ctx context.Context, backupService *service.BackupService, outputPath string, logger *slog.Logger) error {
	if outputPath == "" {
		outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	}

	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	logger.Info("Exporting database", slog.String("output", outputPath))
	if err := backupService.ExportToFile(ctx, outputPath); err != nil {
		return err
	}

	if info, err := os.Stat(outputPath); err == nil {
		logger.Info("Export complete", slog.Int64("bytes", info.Size()))
	}
	return nil
}

func handleImport(ctx context.Context, backupService *service.BackupService, inputPath string, clearData, skipPrompt bool, logger *slog.Logger) error {
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file: %w", err)
	}

	if clearData && !skipPrompt {
		fmt.Print("WARNING: This will delete all existing profiles and words. Type 'yes' to confirm: ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			logger.Info("Import cancelled")
			return nil
		}
	}

	logger.Info("Importing database", slog.String("input", inputPath), slog.Bool("clear", clearData))
	if err := backupService.ImportFromFile(ctx, inputPath, clearData); err != nil {
		return err
	}
	logger.Info("Import complete")
	return nil
}

func printUsage() {
	fmt.Println("kelime database backup tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export profiles and words to a JSON file")
	fmt.Println("  backup import [options]    Import profiles and words from a JSON file")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println("  -clear            Clear existing data before import (WARNING: destructive)")
	fmt.Println("  -yes              Do not ask for confirmation with -clear")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DB_TYPE     Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH     SQLite database path (default: ./kelime.db)")
	fmt.Println("  DB_URL      PostgreSQL or MySQL connection URL")
}
