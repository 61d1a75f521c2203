package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type listEntry struct {
	Name        string                    `json:"name"`
	Usage       string                    `json:"usage"`
	Description string                    `json:"description"`
	Params      map[string]ValidationRule `json:"params,omitempty"`
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list [filter]",
		Short: "List the available filters, or describe one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return a.describe(cmd.OutOrStdout(), args[0], asJSON)
			}
			return a.list(cmd.OutOrStdout(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print machine-readable JSON")
	return cmd
}

func (a *app) list(w io.Writer, asJSON bool) error {
	if asJSON {
		entries := make([]listEntry, 0, len(a.store.Commands))
		for _, c := range a.store.Commands {
			entries = append(entries, listEntry{c.Name, c.Usage, c.Description, GenerateValidationRules(c)})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range a.store.Commands {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Usage, c.Description)
	}
	return tw.Flush()
}

func (a *app) describe(w io.Writer, name string, asJSON bool) error {
	help, rules, err := a.store.GetCommandHelp(name)
	if err != nil {
		return err
	}
	if asJSON {
		c, _ := a.store.Get(name)
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(listEntry{c.Name, c.Usage, c.Description, rules})
	}
	_, err = fmt.Fprintln(w, help)
	return err
}
