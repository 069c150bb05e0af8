package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shotscraper/internal/util"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var noLocal bool

	cmd := &cobra.Command{
		Use:   "resolve TARGET",
		Short: "Turn a URL or local file path into a URL to capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolve := util.FileResolver(util.ResolveLocalFile)
			if noLocal {
				resolve = util.ResolveNever
			}
			u := util.URLOrFilePath(args[0], resolve)
			ctx.logger().Debugf("resolved %q -> %s", args[0], u)
			_, err := fmt.Fprintln(cmd.OutOrStdout(), u)
			return err
		},
	}

	cmd.Flags().BoolVar(&noLocal, "no-local", false, "Never treat TARGET as a local file")

	return cmd
}
