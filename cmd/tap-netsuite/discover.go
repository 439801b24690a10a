package main

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/tap-netsuite/pkg/netsuite"
	"github.com/ajitpratap0/tap-netsuite/pkg/singer"
)

func newStreamsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "streams",
		Short: "List registered streams and how each is searched",
		RunE: func(cmd *cobra.Command, args []string) error {
			descs := sortedCatalog()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STREAM\tREMOTE TYPE\tSTRATEGY\tFLAGS")
			for _, d := range descs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Stream, d.RemoteType, d.Strategy, flags(d))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d streams\n", len(descs))
			return nil
		},
	}
}

func newDiscoverCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Print the Singer catalog for every stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(discover())
		},
	}
}

func discover() singer.Catalog {
	var cat singer.Catalog
	for _, d := range sortedCatalog() {
		cat.Streams = append(cat.Streams, singer.NewCatalogEntry(d.Stream, d.RequiresWatermark))
	}
	return cat
}

func sortedCatalog() []netsuite.EntityDescriptor {
	descs := netsuite.Catalog()
	slices.SortFunc(descs, func(a, b netsuite.EntityDescriptor) int {
		return strings.Compare(a.Stream, b.Stream)
	})
	return descs
}

func flags(d netsuite.EntityDescriptor) string {
	var f []string
	if d.RequiresWatermark {
		f = append(f, "incremental")
	}
	if d.RequiresPaging {
		f = append(f, "paged")
	}
	if d.Writable {
		f = append(f, "writable")
	}
	if d.Container != "" {
		f = append(f, "in:"+d.Container)
	}
	return strings.Join(f, ",")
}
