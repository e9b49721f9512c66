package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func StreakCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Streak maintenance",
	}

	cmd.AddCommand(streakRecomputeCmd(load))
	return cmd
}

func streakRecomputeCmd(load Loader) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Rebuild streaks from session history",
		Long:  "Rebuild one user's streak (--user) or every user's streak from their recorded sessions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), load)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()

			if userID != "" {
				state, err := a.StudyService.RecomputeStreak(userID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "current %d, longest %d\n", state.CurrentStreak, state.LongestStreak)
				return nil
			}

			done, err := a.StudyService.RecomputeAllStreaks()
			fmt.Fprintf(out, "recomputed %d streaks\n", done)
			return err
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "only recompute this user ID")
	return cmd
}
