package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/jsa/lsp"
)

func (rc *rootCommand) newLSPCmd() *cobra.Command {
	var tcpAddr string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer(version, rc.conf, rc.fs)
			if tcpAddr != "" {
				return server.RunTCP(tcpAddr)
			}
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVar(&tcpAddr, "tcp", "", "listen on this TCP address instead of stdio")

	return cmd
}
