// Command studioctl is a small operator tool for the try-on studio.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/raushankrgupta/tryon-studio/config"
	"github.com/raushankrgupta/tryon-studio/logger"
	"github.com/raushankrgupta/tryon-studio/scrapers"
	"github.com/raushankrgupta/tryon-studio/utils"
	"github.com/raushankrgupta/tryon-studio/wardrobe"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
	catalogPath  string
	headless     bool
	timeout      time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "studioctl",
	Short:        "Operator commands for the try-on studio",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadConfig()
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the studio API",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := utils.GenerateToken(config.JWTSecret, tokenSubject, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate and print the wardrobe catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := catalogPath
		if path == "" {
			path = config.WardrobeCatalog
		}
		items, err := wardrobe.LoadCatalog(path)
		if err != nil {
			return err
		}
		return printJSON(cmd, items)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <url>",
	Short: "Scrape a product page into a wardrobe item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New(config.LogLevel, config.LogFormat)
		defer log.Sync()

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		registry := scrapers.NewRegistry(headless || config.ScraperHeadless, log)
		item, err := registry.Import(ctx, args[0])
		if err != nil {
			log.Error("import failed", zap.String("url", args[0]), zap.Error(err))
			return err
		}
		return printJSON(cmd, item)
	},
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "studio", "token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")

	catalogCmd.Flags().StringVar(&catalogPath, "file", "", "catalog file (defaults to WARDROBE_CATALOG or the built-in catalog)")

	importCmd.Flags().BoolVar(&headless, "headless", false, "fall back to a headless browser")
	importCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "scrape timeout")

	rootCmd.AddCommand(tokenCmd, catalogCmd, importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
