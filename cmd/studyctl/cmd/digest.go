package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func DigestCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Weekly progress digest",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "send",
		Short: "Email every user their weekly digest",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), load)
			if err != nil {
				return err
			}
			defer a.Close()

			sent, err := a.DigestService.SendWeekly(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "sent %d digests\n", sent)
			return err
		},
	})

	return cmd
}
