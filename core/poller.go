package core

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultPollInterval = 2 * time.Second
	sendTimeout         = 10 * time.Second
)

// Poller drives the fetch loop: it pulls message batches from the
// transport, claims each message by advancing the cursor, hands it to
// the handler, and sends the handler's reply back to the originating
// chat.
type Poller struct {
	transport Transport
	handler   MessageHandler
	interval  time.Duration
	logger    *slog.Logger

	stopOnce sync.Once
	stopped  chan struct{}

	// cursor is the next sequence ID to request. Zero means unset:
	// the first fetch asks for everything the backend still buffers.
	// Never persisted and never rewound.
	cursor int64
}

// NewPoller creates a poller. A non-positive interval selects the
// default inter-poll delay.
func NewPoller(transport Transport, handler MessageHandler, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		transport: transport,
		handler:   handler,
		interval:  interval,
		logger:    logger,
		stopped:   make(chan struct{}),
	}
}

// Start runs the poll loop. It blocks until Stop is called or ctx is
// cancelled, and must be started at most once per Poller.
func (p *Poller) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-p.stopped:
			cancel()
		case <-ctx.Done():
		}
	}()

	p.logger.Info("poller started")
	for {
		if ctx.Err() != nil {
			p.logger.Info("poller stopped")
			return nil
		}

		batch, err := p.transport.FetchBatch(ctx, p.cursor)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("poller stopped")
				return nil
			}
			p.logger.Error("fetch failed", "cursor", p.cursor, "error", err)
		}

		for _, msg := range batch {
			// Claim the message before handling it so a failure
			// mid-dispatch never causes redelivery.
			if msg.SequenceID >= p.cursor {
				p.cursor = msg.SequenceID + 1
			}
			p.dispatch(ctx, msg)
		}

		select {
		case <-time.After(p.interval):
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return nil
		}
	}
}

// Stop signals the loop to exit after the in-flight iteration. Safe
// to call more than once, and after the loop has already exited.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopped) })
}

func (p *Poller) dispatch(ctx context.Context, msg InboundMessage) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("handler panic", "sequence_id", msg.SequenceID, "panic", r)
		}
	}()

	reply := p.handler(ctx, msg)
	if reply == "" {
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := p.transport.SendReply(sendCtx, msg.ChatID, reply); err != nil {
		p.logger.Error("send reply failed", "chat_id", msg.ChatID, "error", err)
	}
}
