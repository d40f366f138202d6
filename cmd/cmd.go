package cmd

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "fairshare",
	Short: "split shared expenses",
	Long:  `this is a tool to split shared expenses in a group, it computes who owes whom and suggests the fewest payments to settle up`,
}

func init() {
	RootCmd.AddCommand(shareCmd())
	RootCmd.AddCommand(serverCommand())
	RootCmd.AddCommand(migrateCommand())
}
