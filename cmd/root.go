package cmd

import (
	"fmt"
	"os"

	"medialink/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "medialink",
	Short: "Media symlink organizer",
	Long: `Medialink keeps a tree of symbolic links with canonical, template-generated
names in sync with one or more media source directories. Originals are never
moved or copied.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format for CLI failures regardless of configuration
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory searched for .env and config files")
}
