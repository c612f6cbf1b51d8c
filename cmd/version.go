package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var versionCMD = &cobra.Command{
	Use:   "version",
	Short: "print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "homecloud", version)
	},
}

func init() {
	rootCMD.AddCommand(versionCMD)
}
