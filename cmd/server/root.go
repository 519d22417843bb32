package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	serve := newServeCmd(flags)

	root := &cobra.Command{
		Use:   "csv2json",
		Short: "Convert CSV uploads into stored JSON documents",
		Long: `csv2json accepts CSV bodies over HTTP, converts them row by row into JSON
arrays of strings, and stores each result as a document addressed by UUID.

Run without a subcommand to start the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading configuration (ignored if missing)")

	root.AddCommand(serve)
	root.AddCommand(newMigrateCmd(flags))
	root.AddCommand(newConvertCmd())

	return root
}

// loadEnvFile loads variables from path without overriding ones already set.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no env file found, using environment variables", "path", path)
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	slog.Debug("loaded env file", "path", path)
	return nil
}
