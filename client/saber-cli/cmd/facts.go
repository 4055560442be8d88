package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFactsCmd(o *options) *cobra.Command {
	var kind, query, related string
	cmd := &cobra.Command{
		Use:   "facts",
		Short: "List stored facts by kind, value substring or related entity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind == "" && query == "" && related == "" {
				return fmt.Errorf("one of --kind, --q or --related is required")
			}
			params := url.Values{}
			if kind != "" {
				params.Set("kind", kind)
			}
			if query != "" {
				params.Set("q", query)
			}
			if related != "" {
				params.Set("related", related)
			}

			var list factList
			if err := o.do(http.MethodGet, "/api/v1/facts?"+params.Encode(), nil, &list); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tENTITY\tKEY\tVALUE")
			for _, f := range list.Facts {
				key := f.Key
				if f.Concept != "" {
					key = f.Concept + "." + key
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Kind, f.Entity, key, f.Value)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d facts\n", list.Count)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "fact kind (name, relation, definition, property, entity)")
	cmd.Flags().StringVar(&query, "q", "", "substring of the fact value")
	cmd.Flags().StringVar(&related, "related", "", "entity the facts have a relationship with")
	return cmd
}

func newHealthCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the service and its dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			if err := o.do(http.MethodGet, "/healthz", nil, &body); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), body.Status)
			names := make([]string, 0, len(body.Checks))
			for name := range body.Checks {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", name, body.Checks[name])
			}
			return nil
		},
	}
}
