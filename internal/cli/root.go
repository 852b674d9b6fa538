package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bloovis/csup/internal/config"
	"github.com/bloovis/csup/internal/domain"
	"github.com/bloovis/csup/internal/notmuch"
	"github.com/bloovis/csup/internal/store/sqlite"
	"github.com/bloovis/csup/internal/thread"
	"github.com/bloovis/csup/internal/tui"
)

var (
	// version is set via ldflags at build time.
	version = "dev"
	cfgFile string

	// jsonFlag enables JSON output for all commands.
	jsonFlag bool
)

// app bundles the collaborators every command needs: the loaded
// config, the index client, and the thread cache built over it.
type app struct {
	cfg      *config.Config
	client   *notmuch.Client
	contacts *domain.ContactBook
	cache    *thread.Cache
}

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "csup",
		Short:   "Terminal mail client for notmuch",
		Long:    "A terminal-based mail client that reads and tags mail through the notmuch index.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}

			db, err := openDB(a.cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			return tui.Run(a.cfg, a.client, a.cache, db)
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("csup %s\n", version))
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output in JSON format")
	root.AddCommand(newSearchCmd())
	root.AddCommand(newReadCmd())
	root.AddCommand(newTagCmd())
	root.AddCommand(newCountCmd())
	root.AddCommand(newPollCmd())
	root.AddCommand(newSearchesCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads config and contacts and builds the index client and
// thread cache shared by all commands.
func setup() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	contacts, err := config.LoadContacts(cfg.Contacts)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	client := notmuch.NewClient(cfg.Notmuch.Binary)
	return &app{
		cfg:      cfg,
		client:   client,
		contacts: contacts,
		cache:    thread.NewCache(client, contacts),
	}, nil
}

// loadConfig loads the application configuration from the config file.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.toml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openDB creates the data directory and opens the state database.
func openDB(cfg *config.Config) (*sqlite.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := sqlite.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
