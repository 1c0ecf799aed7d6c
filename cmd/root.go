package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "golang-pingcompare",
	Short: "golang-pingcompare compares host reachability between two IPv4 networks",
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
