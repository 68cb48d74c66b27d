// Package main is the entry point for the justice-pip CLI. It runs the
// contradiction pipeline over case statements, maintains a local case
// archive, and lets reviewers curate results without a server.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the justice-pip CLI.
var rootCmd = &cobra.Command{
	Use:   "justice-pip",
	Short: "Contradiction detection for legal document statements",
	Long: `justice-pip extracts contradictions from factual statements pulled out of
legal documents. Statements load from JSON into a local case archive; the
analyze command runs the rule pipeline and writes ranked, deduplicated
contradiction records; manage lets a reviewer suppress or annotate
individual findings.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./justice-pip.yaml or ~/.config/justice-pip/config.yaml)")
	rootCmd.PersistentFlags().String("archive-dir", "archive", "directory holding the local case archive")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("justice-pip")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "justice-pip"))
		}
	}

	viper.SetEnvPrefix("JUSTICE_PIP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
