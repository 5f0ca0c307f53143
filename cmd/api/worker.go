package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/helha/gdpr-app/internal/queue"
)

func newMailWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mail-worker",
		Short: "Deliver queued emails from RabbitMQ",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.AMQP.URL == "" {
				return errors.New("AMQP_URL must be set to run the mail worker")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, log, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			conn, err := a.connectBroker(ctx)
			if err != nil {
				return err
			}
			consumer, err := queue.NewConsumer(conn, cfg.AMQP.Queue, cfg.AMQP.Workers, log)
			if err != nil {
				return fmt.Errorf("failed to create consumer: %w", err)
			}

			log.Info().Str("queue", cfg.AMQP.Queue).Int("workers", cfg.AMQP.Workers).Msg("mail worker started")
			if err := consumer.Consume(ctx, queue.NewMailHandler(a.direct)); err != nil {
				return err
			}

			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := consumer.Close(closeCtx); err != nil {
				log.Warn().Err(err).Msg("failed to close consumer")
			}
			log.Info().Msg("mail worker stopped")
			return nil
		},
	}
}
