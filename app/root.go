// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
	portaldb "github.com/UnifiedPortal/UnifiedPortal/internal/db"
	"github.com/UnifiedPortal/UnifiedPortal/internal/logger"
)

var (
	configPath string // Path to the configuration directory
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "unified-portal",
	Short: "Unified Portal serves the SCB, LMS and JR dashboards and the super-admin console",
	Long: `Unified Portal is a campus portal with one sign-in for the
Student Career Builder, the Learning Management System and Job Recommendation.
Users request a role per application and a super-admin approves it.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "Path to the configuration directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration and sets up logging.
func loadConfig() error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	return logger.Init(cfg.Log)
}

// openDB connects to the configured database. Tests replace it.
var openDB = func(c *config.Config) (*gorm.DB, error) { //nolint:gochecknoglobals
	return portaldb.Open(portaldb.Dialector(&c.DB), c.DevMode)
}
