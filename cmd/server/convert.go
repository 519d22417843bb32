package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/JonMunkholm/csv2json/internal/core"
	"github.com/JonMunkholm/csv2json/internal/logging"
	"github.com/JonMunkholm/csv2json/internal/store"
	"github.com/spf13/cobra"
)

type convertFlags struct {
	limit     int64
	chunkSize int
	indent    bool
	logLevel  string
}

func newConvertCmd() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a CSV file (or stdin) and print the JSON rows",
		Long: `Runs the same extraction as POST /document over a local file, or stdin when
no file is given, and prints the resulting row collection. Nothing is written
to the database.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(cmd.ErrOrStderr(), flags.logLevel, "text")

			up := core.Upload{
				ContentType:    core.AcceptedContentType,
				DeclaredLength: core.NoDeclaredLength,
				Body:           cmd.InOrStdin(),
			}
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				info, err := f.Stat()
				if err != nil {
					return err
				}
				up.Body = f
				if info.Mode().IsRegular() {
					up.DeclaredLength = info.Size()
				}
			}

			return convert(cmd, up, flags)
		},
	}

	cmd.Flags().Int64Var(&flags.limit, "limit", core.DefaultLimit, "maximum input size in bytes")
	cmd.Flags().IntVar(&flags.chunkSize, "chunk-size", core.DefaultChunkSize, "bytes read per chunk")
	cmd.Flags().BoolVar(&flags.indent, "indent", false, "pretty-print the output")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	return cmd
}

func convert(cmd *cobra.Command, up core.Upload, flags *convertFlags) error {
	service := core.NewService(
		store.NewMemoryStore(),
		core.NewUploadLimiter(1, 0),
		nil,
		core.ServiceConfig{Limit: flags.limit, ChunkSize: flags.chunkSize},
	)

	doc, err := service.CreateDocument(cmd.Context(), up)
	if err != nil {
		return fmt.Errorf("%s: %w", core.MapError(err).Code, err)
	}

	out := []byte(doc.Content)
	if flags.indent {
		var buf bytes.Buffer
		if err := json.Indent(&buf, doc.Content, "", "  "); err != nil {
			return err
		}
		out = buf.Bytes()
	}

	w := cmd.OutOrStdout()
	if _, err := w.Write(out); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
