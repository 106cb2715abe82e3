package cli

import (
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "list <type>",
		Short: "List every resource of a top-level type",
		Long: `List prints all projects or users visible to the configured account.
The sqlite backend lists any resource type.

Example:
  planka list project
  planka list user --fields id,username,email -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				c, err := s.client.All(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printCollection(cmd, s, &q, c)
			})
		},
	}
	q.register(cmd)
	return cmd
}
