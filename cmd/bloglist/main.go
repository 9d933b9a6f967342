package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/xRiceFarmer/bloglist-client/internal/api"
	"github.com/xRiceFarmer/bloglist-client/internal/app"
	"github.com/xRiceFarmer/bloglist-client/internal/blogstore"
	"github.com/xRiceFarmer/bloglist-client/internal/config"
	"github.com/xRiceFarmer/bloglist-client/internal/credstore"
	"github.com/xRiceFarmer/bloglist-client/internal/devserver"
	"github.com/xRiceFarmer/bloglist-client/internal/notify"
	"github.com/xRiceFarmer/bloglist-client/internal/platform/logging"
	"github.com/xRiceFarmer/bloglist-client/internal/session"
)

const demoAddr = "127.0.0.1:3003"

var (
	flagAPIURL string
	flagDemo   bool
)

var rootCmd = &cobra.Command{
	Use:   "bloglist",
	Short: "Terminal client for a shared bloglist service",
	Long: `bloglist is an interactive terminal client for a shared blog collection.

Log in, browse the list sorted by likes, add entries, like and comment on
them, and remove your own. The session is persisted between runs.

Run with --demo to start against an embedded in-memory backend.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagAPIURL, "api-url", "", "bloglist service base URL (overrides BLOGLIST_API_URL)")
	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "run against an embedded in-memory backend")
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	apiURL := cfg.APIURL
	if cfg.Demo {
		apiURL, err = startDemoBackend()
		if err != nil {
			return err
		}
	}

	input := newLineReader(os.Stdin)

	client := api.NewClient(apiURL)
	sessions := session.NewManager(client, credstore.NewFileStore(cfg.CredentialsFile))
	center := notify.NewCenter(clockwork.NewRealClock())
	store := blogstore.NewStore(client, sessions, center, newStdinConfirmer(input, os.Stdout))
	orchestrator := app.NewOrchestrator(sessions, store, center)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer orchestrator.Close()

	orchestrator.Start(ctx)
	return runUI(ctx, orchestrator, center, input)
}

// loadConfig merges command-line flags over the environment. Validation runs
// last, so `--api-url` alone is enough to start with no environment set.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		if !flagDemo {
			return nil, err
		}
		// Demo mode works without any environment at all.
		cfg = &config.Config{
			LogLevel:        "info",
			LogFormat:       "text",
			CredentialsFile: filepath.Join(os.TempDir(), "bloglist-session.json"),
		}
	}

	if flagAPIURL != "" {
		cfg.APIURL = flagAPIURL
	}
	if flagDemo {
		cfg.Demo = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// startDemoBackend serves the in-memory backend and returns its base URL.
// The listener is bound before returning, so the first request cannot race
// the server startup. Seeded account: demo / demo.
func startDemoBackend() (string, error) {
	backend := devserver.New()
	if err := backend.AddUser("demo", "demo", "Demo User"); err != nil {
		return "", fmt.Errorf("failed to seed demo user: %w", err)
	}
	backend.SeedBlog("demo", "Go Proverbs", "Rob Pike", "https://go-proverbs.github.io", 5)
	backend.SeedBlog("demo", "Errors are values", "Rob Pike", "https://go.dev/blog/errors-are-values", 3)
	backend.SeedBlog("demo", "Share Memory By Communicating", "Andrew Gerrand", "https://go.dev/blog/codelab-share", 3)

	ln, err := net.Listen("tcp", demoAddr)
	if err != nil {
		return "", fmt.Errorf("demo backend listen: %w", err)
	}

	go func() {
		if err := backend.Serve(ln); err != nil {
			slog.Error("Demo backend stopped", "error", err)
			os.Exit(1)
		}
	}()

	fmt.Printf("demo backend on http://%s (log in with demo / demo)\n\n", demoAddr)
	return "http://" + demoAddr, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
