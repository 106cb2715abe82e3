package cli

import (
	"github.com/spf13/cobra"
)

func newRelatedCmd() *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "related <type> <id> <relation>",
		Short: "List the resources related to one resource",
		Long: `Related fetches a resource and prints one of its related collections.

Relations:
  project      boards
  board        lists, cards, labels, memberships, actions
  list         cards
  card         task_lists, comments, attachments, actions
  task_list    tasks

Example:
  planka related board 42 lists --order-by position
  planka related list 7 cards --where isClosed=false --fields id,name,dueDate`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				e, err := s.client.Get(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				c, err := e.Relation(cmd.Context(), args[2])
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
