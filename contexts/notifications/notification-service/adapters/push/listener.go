package push

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"chancery/contexts/notifications/notification-service/domain/entities"
)

// Stream is one live push connection. Receive blocks until a notification
// arrives or the connection fails; Ping verifies the peer still answers.
type Stream interface {
	Receive(ctx context.Context) (entities.Notification, error)
	Ping(ctx context.Context) error
	Close() error
}

// Dialer opens a push stream.
type Dialer interface {
	Dial(ctx context.Context) (Stream, error)
}

// Poller is the fallback delivery path once the push channel is given up.
type Poller interface {
	Poll(ctx context.Context) ([]entities.Notification, error)
}

const (
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 30 * time.Second
	defaultMaxAttempts    = 5
	defaultPingInterval   = 30 * time.Second
	defaultPollInterval   = 10 * time.Second
	pingTimeout           = 5 * time.Second
)

// Listener keeps one push subscription alive. Reconnects back off
// exponentially; after MaxAttempts consecutive failures it stops dialing and
// degrades to pure polling. A ping that goes unanswered tears the connection
// down so an idle stream is never mistaken for a dead one.
type Listener struct {
	Dialer         Dialer
	Poller         Poller
	Sink           func(entities.Notification)
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	PingInterval   time.Duration
	PollInterval   time.Duration
	Logger         *slog.Logger
}

// Run blocks until the context is done.
func (l Listener) Run(ctx context.Context) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxAttempts := l.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	backoff := l.InitialBackoff
	if backoff <= 0 {
		backoff = defaultInitialBackoff
	}
	maxBackoff := l.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = defaultMaxBackoff
	}

	wait := backoff
	attempts := 0
	for attempts < maxAttempts {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		stream, err := l.Dialer.Dial(ctx)
		if err == nil {
			attempts = 0
			wait = backoff
			err = l.consume(ctx, stream)
		}
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return ctx.Err()
		}

		attempts++
		logger.Warn("push connection lost",
			"event", "notification_push_reconnect",
			"module", "notifications/notification-service",
			"layer", "adapter",
			"attempt", attempts,
			"max_attempts", maxAttempts,
			"backoff", wait.String(),
			"error", errString(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
		if wait > maxBackoff {
			wait = maxBackoff
		}
	}

	logger.Warn("push channel abandoned, polling only",
		"event", "notification_push_degraded",
		"module", "notifications/notification-service",
		"layer", "adapter",
		"max_attempts", maxAttempts,
	)
	return l.pollLoop(ctx)
}

func (l Listener) consume(ctx context.Context, stream Stream) error {
	defer stream.Close()

	pingInterval := l.PingInterval
	if pingInterval <= 0 {
		pingInterval = defaultPingInterval
	}

	type received struct {
		notification entities.Notification
		err          error
	}
	incoming := make(chan received, 1)
	receiveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		for {
			notification, err := stream.Receive(receiveCtx)
			select {
			case incoming <- received{notification: notification, err: err}:
			case <-receiveCtx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case item := <-incoming:
			if item.err != nil {
				return item.err
			}
			if l.Sink != nil {
				l.Sink(item.notification)
			}
		case <-ticker.C:
			pingCtx, pingCancel := context.WithTimeout(ctx, pingTimeout)
			err := stream.Ping(pingCtx)
			pingCancel()
			if err != nil {
				return err
			}
		}
	}
}

func (l Listener) pollLoop(ctx context.Context) error {
	if l.Poller == nil {
		<-ctx.Done()
		return ctx.Err()
	}

	interval := l.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			notifications, err := l.Poller.Poll(ctx)
			if err != nil {
				continue
			}
			if l.Sink != nil {
				for _, notification := range notifications {
					l.Sink(notification)
				}
			}
		}
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
