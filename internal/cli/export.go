package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.jsonl>",
		Short: "Write the local sqlite store to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				local, err := s.requireLocal("export")
				if err != nil {
					return err
				}
				n, err := local.Export(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d records to %s\n", n, args[0])
				return nil
			})
		},
	}
}
