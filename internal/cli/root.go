package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"reviewsense/config"
	"reviewsense/internal/logging"
)

var (
	cfgFile string
	envFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "reviewsense",
	Short: "Review sentiment service - overall and per-aspect sentiment for restaurant reviews",
	Long: `reviewsense scores restaurant reviews with a pre-trained text classifier and
attributes sentence-level sentiment to food, service, speed, hygiene, ambience
and price.

Example usage:
  reviewsense serve                       # Start the HTTP API on :5000
  reviewsense score -t "Great food."      # Score one review
  reviewsense score --reviews reviews/    # Score every review file in a directory
  reviewsense model pack --out model.db   # Bundle artifacts into one file`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		// .env first so its values can feed the overrides below
		path := envFile
		if path == "" {
			path = filepath.Join(rootDir, ".env")
		}
		if err := config.LoadEnv(path); err != nil {
			return err
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg.ApplyEnv()

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logging.InitLogger(cfg.Logging.Level, cfg.Logging.JSON)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./reviewsense.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", ".env file to load (default is <dir>/.env)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
