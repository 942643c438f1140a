package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"policyqa/internal/frameworks"
)

func newFrameworksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "frameworks [NAME]",
		Short: "List compliance frameworks or show one framework's common questions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				all := frameworks.All()
				if a.jsonOutput() {
					return encodeJSON(cmd, all)
				}
				for _, f := range all {
					fmt.Fprintf(out, "%-10s %s: %s\n", f.ID, f.Name, f.Description)
				}
				return nil
			}

			f, ok := frameworks.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown framework %q (known: %s)", args[0], strings.Join(frameworks.IDs(), ", "))
			}
			if a.jsonOutput() {
				return encodeJSON(cmd, f)
			}
			color.New(color.Bold).Fprintf(out, "%s (%s)\n", f.Name, f.ID)
			fmt.Fprintln(out, f.Description)
			fmt.Fprintf(out, "Domains: %s\n", strings.Join(f.Domains, ", "))
			fmt.Fprintln(out, "Common questions:")
			for i, q := range f.CommonQuestions {
				fmt.Fprintf(out, "  %2d. %s\n", i+1, q)
			}
			return nil
		},
	}
}

func encodeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
