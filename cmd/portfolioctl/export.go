package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"portfolio-backend/internal/store"
)

func newExportCmd() *cobra.Command {
	var (
		format  string
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every collection as one JSON or YAML document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q (json or yaml)", format)
			}

			catalog, release, err := openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			snap := catalog.Snapshot()
			var data []byte
			if format == "yaml" {
				data, err = store.EncodeYAMLSnapshot(snap)
			} else {
				data, err = json.MarshalIndent(snap, "", "  ")
				data = append(data, '\n')
			}
			if err != nil {
				return fmt.Errorf("encode snapshot: %w", err)
			}

			var out io.Writer = cmd.OutOrStdout()
			if outFile != "" {
				f, err := os.Create(outFile)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write to file instead of stdout")
	return cmd
}
