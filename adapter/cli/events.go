package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/eventbus"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect domain events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail [pattern...]",
	Short: "Stream domain events from RabbitMQ",
	Long: `Follow the events other cadence processes publish to RabbitMQ.
Patterns use topic syntax: "*" matches one word, "#" matches any number.

Requires RABBITMQ_URL.

Examples:
  cadence events tail                       # Everything
  cadence events tail "habits.habit.*"      # Habit events only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		if app.RabbitMQURL == "" {
			return fmt.Errorf("RABBITMQ_URL is not set")
		}

		patterns := args
		if len(patterns) == 0 {
			patterns = []string{"#"}
		}

		registry := eventbus.NewConsumerRegistry(getLogger())
		consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
			URL:       app.RabbitMQURL,
			QueueName: "cadence.tail." + uuid.NewString(),
			Exclusive: true,
			Logger:    getLogger(),
		}, registry)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer func() { _ = consumer.Close() }()

		consumer.RegisterConsumer(newEventPrinter(cmd.OutOrStdout(), patterns))
		fmt.Fprintln(cmd.ErrOrStderr(), Muted("Waiting for events. Press Ctrl+C to stop."))

		err = consumer.Start(cmd.Context())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// eventPrinter writes one line per consumed event.
type eventPrinter struct {
	mu       sync.Mutex
	out      io.Writer
	patterns []string
}

func newEventPrinter(out io.Writer, patterns []string) *eventPrinter {
	return &eventPrinter{out: out, patterns: patterns}
}

func (p *eventPrinter) EventTypes() []string {
	return p.patterns
}

func (p *eventPrinter) Handle(_ context.Context, event *eventbus.ConsumedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, err := fmt.Fprintf(p.out, "%s %s %s %s\n",
		Muted(event.OccurredAt.Format("2006-01-02 15:04:05")),
		Header(event.RoutingKey),
		ShortID(event.AggregateID),
		string(event.Payload),
	)
	return err
}

func init() {
	eventsCmd.AddCommand(eventsTailCmd)
	rootCmd.AddCommand(eventsCmd)
}
