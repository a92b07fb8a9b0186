package main

import (
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/rill-lang/rill/workspace"
)

func newLSPCmd() *cobra.Command {
	var tcpAddress string
	var verbose int

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			commonlog.Configure(verbose, nil)
			server := workspace.NewLSPServer(version)
			if tcpAddress != "" {
				return server.RunTCP(tcpAddress)
			}
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVar(&tcpAddress, "tcp", "", "listen on a TCP address instead of stdio")
	cmd.Flags().IntVar(&verbose, "verbose", 0, "logging verbosity (0-2)")

	return cmd
}
