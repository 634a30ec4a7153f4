package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gush-shell/gush/core/config"
	"github.com/gush-shell/gush/core/history"
	"github.com/gush-shell/gush/core/shell"
)

var cfgDir string

func loadConfig(logger *log.Logger) (*config.Configuration, error) {
	fsys := afero.NewOsFs()

	configuration, err := config.Load(fsys, cfgDir)
	if errors.Is(err, fs.ErrNotExist) {
		// First run: materialize the default configuration.
		return config.Initialize(fsys, cfgDir, logger)
	}
	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gush",
	Short: "An interactive Unix command interpreter",
	Long: `gush reads commands a line at a time and runs them, supporting
input/output redirection (<, >) and two-command pipelines (|).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)
		configuration, err := loadConfig(logger)
		if err != nil {
			return err
		}

		store, err := history.Open(configuration.HistoryPath())
		if err != nil {
			return err
		}
		defer store.Close()

		sh, err := shell.New(configuration, store)
		if err != nil {
			return err
		}
		defer sh.Close()

		return sh.Run(cmd.Context())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func defaultConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, "gush")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", defaultConfigDir(), "config directory")
}
