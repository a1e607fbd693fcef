package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"portfolio-backend/internal/store"
)

func newImportCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace stored content with an exported JSON or YAML document",
		Long: `Collections missing from the file keep their current content. Present
collections are replaced as a whole.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			catalog, release, err := openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			snap := catalog.Snapshot()
			switch strings.ToLower(filepath.Ext(args[0])) {
			case ".yaml", ".yml":
				err = store.DecodeYAMLSnapshot(raw, &snap)
			default:
				err = json.Unmarshal(raw, &snap)
			}
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "projects=%d experiences=%d testimonials=%d certifications=%d services=%d gallery=%d resources=%d\n",
				len(snap.Projects), len(snap.Experiences), len(snap.Testimonials), len(snap.Certifications),
				len(snap.Services), len(snap.Gallery), len(snap.Resources))
			if dryRun {
				fmt.Fprintln(out, "dry run, nothing written")
				return nil
			}

			if err := catalog.Restore(cmd.Context(), snap); err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			fmt.Fprintln(out, "imported")
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and report counts without writing")
	return cmd
}
