package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func UserCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Provision users and API tokens",
	}

	cmd.AddCommand(userCreateCmd(load))
	cmd.AddCommand(userTokenCmd(load))
	return cmd
}

func userCreateCmd(load Loader) *cobra.Command {
	var email, name, timezone string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user and print an API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), load)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.UserService.Create(email, name, timezone)
			if err != nil {
				return err
			}

			token, err := a.AuthService.GenerateJWT(user)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created user %s (%s)\n", user.ID, user.Email)
			fmt.Fprintf(out, "token: %s\n", token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone (default DEFAULT_TIMEZONE)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func userTokenCmd(load Loader) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a new API token for an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), load)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.UserService.ByID(id)
			if err != nil {
				return err
			}

			token, err := a.AuthService.GenerateJWT(user)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "user ID")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
