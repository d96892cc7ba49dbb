package main

import (
	"fmt"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/flexprice/invoicer/internal/template"
	"github.com/flexprice/invoicer/internal/types"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect the built-in template catalog",
	}
	cmd.AddCommand(newTemplatesListCmd(), newTemplatesShowCmd())
	return cmd
}

func newTemplatesListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates, optionally by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := template.NewDefaultRegistry()
			if err != nil {
				return err
			}

			configs := registry.List()
			if category != "" {
				c := types.TemplateCategory(category)
				if err := c.Validate(); err != nil {
					return err
				}
				configs = registry.ListByCategory(c)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPAGE\tDEFAULT")
			for _, c := range configs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%t\n",
					c.ID, c.Name, c.Category, c.Layout.Format, c.Layout.Orientation, c.IsDefault)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "filter by category")
	return cmd
}

func newTemplatesShowCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the full configuration of a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := template.NewDefaultRegistry()
			if err != nil {
				return err
			}

			cfg, err := registry.Get(args[0])
			if err != nil {
				return err
			}

			if asJSON {
				data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			_, err = pp.Fprintln(cmd.OutOrStdout(), cfg)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a colored dump")
	return cmd
}
