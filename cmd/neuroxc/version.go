package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/neurox-lang/neurox/internal/project"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the compiler version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "neuroxc %s (%s %s/%s)\n",
				project.CompilerVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
