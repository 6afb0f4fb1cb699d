package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vvakame/gamereview/internal/config"
	"github.com/vvakame/gamereview/internal/log"
)

func main() {
	err := realMain()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func realMain() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gamereview",
		Short:         "GraphQL API over games, reviews and authors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Configuration file. Flags and environment variables take precedence over it.")
	rootCmd.PersistentFlags().IntP("verbosity", "v", 0, "Log verbosity.")
	rootCmd.PersistentFlags().String("dataset-file", "", "Seed the store from a YAML or JSON file.")
	rootCmd.PersistentFlags().String("dataset-url", "", "Seed the store from a YAML or JSON document fetched over HTTP.")

	rootCmd.AddCommand(newServeCmd(), newQueryCmd())

	return rootCmd
}

// loadConfig resolves the configuration of cmd and installs the logger in
// the command context.
func loadConfig(cmd *cobra.Command) (context.Context, *config.Config, error) {
	v := config.New()
	if err := bindFlags(v, cmd); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, err
	}

	logger := log.New(cfg.Verbosity)
	ctx := log.WithLogger(cmd.Context(), logger)

	return ctx, cfg, nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	// persistent flags of the root are merged into cmd.Flags() by cobra.
	return config.BindFlags(v, cmd.Flags())
}
