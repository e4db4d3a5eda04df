// Package root holds the ratrace operator commands.
package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ratrace/internal/catalog"
	"ratrace/internal/logger"
)

const Version = "0.1.0"

var catalogPath string

var rootCmd = &cobra.Command{
	Use:           "ratrace",
	Short:         "Rat race game engine tools",
	Long:          "ratrace inspects game catalogs, plays simulated sessions and mints API tokens.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", os.Getenv("CATALOG_PATH"), "catalog YAML file (default: embedded catalog)")

	rootCmd.AddCommand(
		newCatalogCmd(),
		newSimulateCmd(),
		newTokenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}

func openCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Open(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}
