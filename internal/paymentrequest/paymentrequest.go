package paymentrequest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"smartswiggy/pkg/lib/logger/sl"

	"github.com/shopspring/decimal"
)

const DefaultInterval = 800 * time.Millisecond

type Request struct {
	GroupId     string          `json:"group_id"`
	MemberId    string          `json:"member_id"`
	DisplayName string          `json:"display_name"`
	Amount      decimal.Decimal `json:"amount"`
}

type Progress struct {
	Sent  int
	Total int
}

type Notifier interface {
	Notify(ctx context.Context, req Request) error
}

type Dispatcher struct {
	log      *slog.Logger
	notifier Notifier
	interval time.Duration
}

func New(log *slog.Logger, notifier Notifier, interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Dispatcher{
		log:      log,
		notifier: notifier,
		interval: interval,
	}
}

// Dispatch notifies each member in turn, one interval apart, calling onSent
// after every delivered request. It returns ctx.Err() if cancelled midway.
func (d *Dispatcher) Dispatch(ctx context.Context, reqs []Request, onSent func(Request, Progress) error) error {
	const op = "paymentrequest.Dispatch"
	log := d.log.With("op", op)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for i, req := range reqs {
		if i > 0 {
			select {
			case <-ctx.Done():
				log.Info("Payment requests cancelled", slog.Int("sent", i), slog.Int("total", len(reqs)))
				return fmt.Errorf("%s: %w", op, ctx.Err())
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := d.notifier.Notify(ctx, req); err != nil {
			log.Error("Failed to send payment request", slog.String("member_id", req.MemberId), sl.Err(err))
			return fmt.Errorf("%s: %w", op, err)
		}

		if onSent != nil {
			if err := onSent(req, Progress{Sent: i + 1, Total: len(reqs)}); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	log.Info("All payment requests sent", slog.Int("total", len(reqs)))
	return nil
}

// LogNotifier only records the request. Real delivery channels are out of scope.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, req Request) error {
	n.log.Info("Payment request sent",
		slog.String("group_id", req.GroupId),
		slog.String("member", req.DisplayName),
		slog.String("amount", req.Amount.StringFixed(2)),
	)
	return nil
}
