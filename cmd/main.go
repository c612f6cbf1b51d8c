package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCMD = &cobra.Command{
	Use:          "homecloud",
	Short:        "homecloud",
	Long:         `self-hosted file store serving a single directory tree over HTTP`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
}

func main() {
	if err := rootCMD.Execute(); err != nil {
		os.Exit(1)
	}
}
