package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/debtprotection/blog-core/internal/config"
	"github.com/debtprotection/blog-core/internal/database"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "blogctl",
	Short: "Operator tooling for the blog backend",
	Long: `blogctl manages the blog database outside the HTTP server.

Examples:
  blogctl migrate
  blogctl create-admin --email admin@example.com --password 'long secret'
  blogctl import-legacy --dir ./dump/blogs`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// session is an open config plus database for one command run.
type session struct {
	cfg *config.AppConfig
	db  *gorm.DB
	log *zap.Logger
}

func open() (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(cfg, false)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, db: db, log: newLogger()}, nil
}

func (s *session) Close() {
	_ = s.log.Sync()
	_ = database.Close(s.db)
}
