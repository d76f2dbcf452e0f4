package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newNormalizeCmd() *cobra.Command {
	var showSecrets bool
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Print the normalized transport properties",
		Long: `Normalize the configured source and print the canonical property set
as YAML. Passwords are masked unless --show-secrets is given.

Example:
  mqconnect normalize --set initial-context-factory=wso2mbInitialContextFactory \
    --set provider-url=amqp://admin:admin@c/carbon?brokerlist='tcp://localhost:5672' \
    --set connection-factory-name=QueueConnectionFactory`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			p, err := s.properties()
			if err != nil {
				return err
			}
			if !showSecrets {
				p = masked(p)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(map[string]string(p)); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print passwords in clear text")
	return cmd
}
