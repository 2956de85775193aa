package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func printSuccess(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "ok: "+format+"\n", args...)
}
