package main

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

// collectionFields maps CLI collection names to snapshot JSON fields
var collectionFields = map[string]string{
	"profile":        "profile",
	"audio-intro":    "audioIntro",
	"projects":       "projects",
	"experiences":    "experiences",
	"testimonials":   "testimonials",
	"certifications": "certifications",
	"services":       "services",
	"gallery":        "gallery",
	"resources":      "resources",
}

func collectionNames() []string {
	names := make([]string, 0, len(collectionFields))
	for name := range collectionFields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func newListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:       "list <collection>",
		Short:     "List the stored records of one collection",
		Long:      "Collections: " + strings.Join(collectionNames(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: collectionNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, ok := collectionFields[args[0]]
			if !ok {
				return fmt.Errorf("unknown collection %q (want one of %s)", args[0], strings.Join(collectionNames(), ", "))
			}

			catalog, release, err := openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			raw, err := json.Marshal(catalog.Snapshot())
			if err != nil {
				return err
			}
			value := gjson.GetBytes(raw, field)

			out := cmd.OutOrStdout()
			if asJSON || !value.IsArray() {
				var pretty any
				if err := json.Unmarshal([]byte(value.Raw), &pretty); err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(pretty)
			}

			for _, item := range value.Array() {
				fmt.Fprintf(out, "%s\t%s\n", item.Get("id").String(), label(item))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

// label picks the first human readable field an entity has
func label(item gjson.Result) string {
	for _, path := range []string{"title", "name", "position"} {
		if v := item.Get(path).String(); v != "" {
			return v
		}
	}
	return "-"
}
