package main

//	@title			OpenChart Styles API
//	@version		0.1.0
//	@description	Style preset and theme management service for the OpenChart diagram editor.
//	@BasePath		/api/v1

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bdgscotland/openchart-styles/internal/catalog"
	"github.com/bdgscotland/openchart-styles/internal/config"
	"github.com/bdgscotland/openchart-styles/internal/event"
	"github.com/bdgscotland/openchart-styles/internal/exchange"
	"github.com/bdgscotland/openchart-styles/internal/kvstore"
	"github.com/bdgscotland/openchart-styles/internal/preset"
	"github.com/bdgscotland/openchart-styles/internal/server"
	"github.com/bdgscotland/openchart-styles/internal/theme"
	"github.com/bdgscotland/openchart-styles/internal/version"
	"github.com/bdgscotland/openchart-styles/internal/ws"
	"github.com/bdgscotland/openchart-styles/pkg/models"
)

func main() {
	// Subcommand dispatch (before flag.Parse).
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "backup":
			runBackup(os.Args[2:])
			return
		case "version":
			fmt.Println(version.Info())
			return
		}
	}

	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Load configuration (before logger, so log level/format can be configured).
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("styleserver starting", zap.String("version", version.Short()))

	if f := cfg.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded",
			zap.String("component", "config"),
			zap.String("source", f),
		)
	} else {
		logger.Warn("no configuration file found, using defaults",
			zap.String("component", "config"),
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the key-value store and gate on the schema version.
	kv, store := openStore(ctx, cfg, logger)
	defer kv.Close()

	// Shared services.
	bus := event.NewBus(logger.Named("event"))
	cat := catalog.New(store, bus, logger.Named("catalog"))
	themeMgr := theme.NewManager(cat, logger.Named("theme"))

	signKey := shareSigningKey(cfg, logger)
	exchangeSvc := exchange.NewService(cat, signKey, version.Short(), logger.Named("exchange"))

	wsHandler := ws.NewHandler(bus, logger.Named("ws"))

	registrars := []server.RouteRegistrar{
		catalog.NewHandler(cat, logger.Named("catalog")),
		theme.NewHandler(themeMgr, cat, logger.Named("theme")),
		exchange.NewHandler(exchangeSvc, logger.Named("exchange")),
		wsHandler,
	}

	readyCheck := server.ReadinessChecker(func(ctx context.Context) error {
		if _, err := kv.Get(ctx, "settings"); err != nil && err != kvstore.ErrKeyNotFound {
			return err
		}
		return nil
	})

	addr := config.Addr(cfg)
	srv := server.New(addr, logger.Named("server"), readyCheck, server.Options{
		DevMode:  cfg.GetBool("server.dev_mode"),
		ReadOnly: cfg.GetBool("server.read_only"),
	}, registrars...)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("styleserver ready", zap.String("addr", addr))

	// Wait for shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	// Snapshot state on the way out if the user asked for it.
	if cat.GetSettings(shutdownCtx).AutoBackup {
		if key, err := cat.CreateBackup(shutdownCtx); err != nil {
			logger.Error("auto-backup failed", zap.Error(err))
		} else {
			logger.Info("auto-backup created", zap.String("key", key))
		}
		if err := cat.Cleanup(shutdownCtx); err != nil {
			logger.Warn("backup cleanup failed", zap.Error(err))
		}
	}

	logger.Info("styleserver stopped")
}

// openStore opens the sqlite key-value store, verifies the schema version,
// and wraps it in a preset store configured from cfg.
func openStore(ctx context.Context, cfg *viper.Viper, logger *zap.Logger) (*kvstore.SQLiteStore, *preset.Store) {
	path := cfg.GetString("storage.path")
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			logger.Fatal("failed to create data directory", zap.String("dir", dir), zap.Error(err))
		}
	}
	kv, err := kvstore.NewSQLite(path)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", path), zap.Error(err))
	}
	if err := kv.CheckVersion(ctx, preset.SchemaVersion); err != nil {
		logger.Fatal("schema version check failed", zap.String("path", path), zap.Error(err))
	}
	logger.Info("database initialized",
		zap.String("component", "database"),
		zap.String("path", path),
	)

	defaults := models.DefaultSettings()
	if n := cfg.GetInt("presets.max_recently_used"); n > 0 {
		defaults.MaxRecentlyUsed = n
	}
	if mode := models.ApplicationMode(cfg.GetString("presets.default_mode")); models.ValidApplicationModes[mode] {
		defaults.DefaultMode = mode
	}

	store := preset.NewStore(kv, logger.Named("preset"),
		preset.WithBackupRetention(cfg.GetInt("presets.backup_retention")),
		preset.WithDefaultSettings(defaults),
	)
	return kv, store
}

// shareSigningKey returns the HMAC key for share tokens, generating an
// ephemeral one when not configured. Ephemeral keys mean share tokens
// do not verify across restarts.
func shareSigningKey(cfg *viper.Viper, logger *zap.Logger) []byte {
	if key := cfg.GetString("share.signing_key"); key != "" {
		logger.Info("share signing key loaded from configuration", zap.String("component", "exchange"))
		return []byte(key)
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		logger.Fatal("failed to generate share signing key", zap.Error(err))
	}
	logger.Info("using auto-generated share signing key (set share.signing_key in config to keep share tokens valid across restarts)",
		zap.String("component", "exchange"),
	)
	return []byte(hex.EncodeToString(b))
}

// runBackup opens the store, writes a backup snapshot, prunes old ones,
// and exits. Used from cron or before upgrades.
func runBackup(args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	kv, store := openStore(ctx, cfg, logger)
	defer kv.Close()

	// Cleanup must see built-in ids, so go through the catalog.
	cat := catalog.New(store, event.NewBus(logger.Named("event")), logger.Named("catalog"))

	key, err := cat.CreateBackup(ctx)
	if err != nil {
		logger.Fatal("backup failed", zap.Error(err))
	}
	if err := cat.Cleanup(ctx); err != nil {
		logger.Warn("backup cleanup failed", zap.Error(err))
	}
	fmt.Printf("backup created: %s\n", key)
}
