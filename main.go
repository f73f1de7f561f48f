package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/open-crosspost/crosspost-proxy/cmd/probe"
	"github.com/open-crosspost/crosspost-proxy/cmd/server"
	"github.com/open-crosspost/crosspost-proxy/cmd/signer"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "crosspost-proxy",
		Short: "NEAR wallet-signature authentication and credential custody service",
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.AddCommand(
		server.New(),
		probe.New(),
		signer.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
