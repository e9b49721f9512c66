package main

import (
	"os"

	"github.com/templui/studyhall/cmd/studyctl/cmd"
	"github.com/templui/studyhall/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "studyctl",
		Short:        "Operator tools for studyhall",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd(config.Load))
	rootCmd.AddCommand(cmd.UserCmd(config.Load))
	rootCmd.AddCommand(cmd.StreakCmd(config.Load))
	rootCmd.AddCommand(cmd.DigestCmd(config.Load))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
