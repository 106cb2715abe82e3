package cli

import (
	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "get <type> <id>",
		Short: "Fetch one resource by id",
		Long: `Get fetches a single resource and prints its fields.

Example:
  planka get card 1357158568008091264
  planka get board 42 -o json --fields id,name`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPrinter(cmd.OutOrStdout(), fields)
			if err != nil {
				return err
			}
			return withSession(cmd, func(s *session) error {
				e, err := s.client.Get(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return p.Record(e.Snapshot())
			})
		},
	}
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "fields to print")
	return cmd
}
