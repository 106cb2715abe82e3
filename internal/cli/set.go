package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/planka/pkg/model"
)

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <type> <id> <field=value>...",
		Short: "Change fields of a resource in a single update",
		Long: `Set refreshes the resource, applies the assignments and sends only the
fields whose value changed. Values are read as YAML scalars, so numbers,
booleans and null keep their type. Quote a value to force a string.

Example:
  planka set card 17 name="Fix login" position=3
  planka set card 17 isDueCompleted=true`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			assignments, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}
			return withSession(cmd, func(s *session) error {
				e, err := s.client.Get(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return runSet(cmd, e, assignments)
			})
		},
	}
}

func runSet(cmd *cobra.Command, e *model.Entity, assignments map[string]any) error {
	ed := e.Editor()
	if err := ed.Begin(cmd.Context()); err != nil {
		return err
	}
	for field, value := range assignments {
		e.Set(field, value)
	}
	changed, err := ed.Commit(cmd.Context())
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s unchanged\n", e)
		return nil
	}
	p, err := newPrinter(cmd.OutOrStdout(), nil)
	if err != nil {
		return err
	}
	return p.Record(changed)
}
