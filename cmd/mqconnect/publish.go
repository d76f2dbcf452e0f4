package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/miladsoleymani/mqconnect/broker"
	"github.com/miladsoleymani/mqconnect/config"
	"github.com/miladsoleymani/mqconnect/core"
	"github.com/miladsoleymani/mqconnect/logger"
)

func newPublishCmd() *cobra.Command {
	var (
		key     string
		headers []string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "publish [body]",
		Short: "Publish one message to the configured destination",
		Long: `Publish one message. The body is the first argument, or stdin when
no argument is given.

Example:
  mqconnect publish --config connector.yaml --header correlation-id=42 '{"id":1}'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if err := s.initLogger(); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			body, err := readBody(cmd, args)
			if err != nil {
				return err
			}

			hdr := config.Properties{}
			if err := config.ParseList(headers, hdr); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return publish(ctx, s, []byte(key), body, hdr)
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "Message key")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "Message header name=value, repeatable")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Publish timeout")
	return cmd
}

func publish(ctx context.Context, s settings, key, body []byte, headers map[string]string) (err error) {
	p, err := s.properties()
	if err != nil {
		return err
	}
	b, cfg, err := broker.Open(p)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, b.Close()) }()

	if cfg.Topic == "" {
		return fmt.Errorf("%s is not set", config.KeyDestination)
	}

	msg := core.NewMessage(key, body, headers)
	if err := core.New(b).Publish(ctx, cfg.Topic, msg); err != nil {
		return err
	}
	id, _ := core.NewHandle(msg).MessageID()
	logger.Named("publish").Info("message published",
		zap.String("destination", cfg.Topic),
		zap.String("message_id", id),
	)
	return nil
}

func readBody(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 1 {
		return []byte(args[0]), nil
	}
	body, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
