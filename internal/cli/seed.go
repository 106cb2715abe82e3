package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.jsonl>",
		Short: "Load records into the local sqlite store",
		Long: `Seed reads a JSONL file of {"type": ..., "item": {...}} lines into the
sqlite backend. Existing records with the same type and id are replaced.
Lines that cannot be decoded are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				local, err := s.requireLocal("seed")
				if err != nil {
					return err
				}
				n, err := local.Seed(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records\n", n)
				return nil
			})
		},
	}
}
