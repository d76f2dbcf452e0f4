package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/miladsoleymani/mqconnect/broker"

	// Import all available plugins to register them
	_ "github.com/miladsoleymani/mqconnect/plugins/kafka"
	_ "github.com/miladsoleymani/mqconnect/plugins/nats"
	_ "github.com/miladsoleymani/mqconnect/plugins/rabbitmq"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mqconnect",
		Short: "mqconnect - messaging connector",
		Long: `mqconnect normalizes connector configuration into canonical transport
properties and runs a consumer or publisher against the configured broker.

Configuration comes from a YAML descriptor (--config) or from key=value
pairs (--set). Settings may also be given as MQCONNECT_* environment variables.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "Path to the connector descriptor (YAML)")
	flags.StringArray("set", nil, "Configuration entry key=value, repeatable")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "json", "Log encoding (json, console)")

	root.AddCommand(
		newVersionCmd(),
		newNormalizeCmd(),
		newConsumeCmd(),
		newPublishCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mqconnect v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Fprintln(out, "Brokers:")
			for _, name := range broker.Registered() {
				fmt.Fprintf(out, "  - %s\n", name)
			}
		},
	}
}
