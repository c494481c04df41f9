package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/angelospk/unpacksort/internal/constants"
)

// Configuration keys. Flags bind onto these; the UNPACKSORT_ env prefix and
// the config file feed them as well.
const (
	CfgKeyWatchDir       = "watch.dir"
	CfgKeyDestDir        = "dest.dir"
	CfgKeyForce          = "run.force"
	CfgKeyMaxRetries     = "run.retries"
	CfgKeyRetryDelay     = "run.retrydelay"
	CfgKeyAttemptTimeout = "run.attempttimeout"
	CfgKeyProbe          = "verify.probe"
)

var (
	// Used for flags.
	cfgFile string

	// RootCmd represents the base command when called without any
	// subcommands. Exported for use in tests.
	RootCmd = &cobra.Command{
		Use:   "unpacksort",
		Short: "Extract archive sets and sort the media inside into a library.",
		Long: `unpacksort scans a watch directory for multi-part compressed archives,
extracts exactly one archive set per directory, classifies the content as
TV or Movie, and hands it to an external rename tool. Re-running on
unchanged input extracts nothing and submits nothing.`,
	}
)

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once from main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.unpacksort/config.yaml)")
}

// ConfigDir returns the per-user configuration directory, creating nothing.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve home directory: %w", err)
	}
	return filepath.Join(home, constants.ConfigDirName), nil
}

// initConfig reads in the config file and matching environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := ConfigDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(configDir)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("UNPACKSORT")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file is fine; flags and env carry the run.
		} else if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error reading config file (%s): %v\n", viper.ConfigFileUsed(), err)
		}
	}
}
