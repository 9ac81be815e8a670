package service

import (
	"context"
	"sync"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/logger"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

// AlertSender delivers one alert to one recipient. Implementations are
// the actual transports (MQTT alert topic, push provider, ...); the
// dispatcher only owns the fan-out.
type AlertSender interface {
	Send(ctx context.Context, recipient string, a models.Alert) error
}

// RecipientResult is the delivery outcome for one recipient.
type RecipientResult struct {
	Recipient string
	Err       error
}

// DispatchReport aggregates per-recipient delivery outcomes.
type DispatchReport struct {
	Success int
	Failure int
	Results []RecipientResult
}

// Dispatcher fans an alert out to N recipients concurrently and
// collects per-recipient results. No ordering guarantee exists across
// recipients.
type Dispatcher struct {
	sender AlertSender
	log    *logger.Logger
}

func NewDispatcher(sender AlertSender, log *logger.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, log: log}
}

// Dispatch sends the alert to every recipient and blocks until all
// sends finish. Individual failures are recorded, never fatal.
func (d *Dispatcher) Dispatch(ctx context.Context, a models.Alert, recipients []string) DispatchReport {
	report := DispatchReport{Results: make([]RecipientResult, len(recipients))}
	if d.sender == nil || len(recipients) == 0 {
		return report
	}

	var wg sync.WaitGroup
	for i, recipient := range recipients {
		wg.Add(1)
		go func(i int, recipient string) {
			defer wg.Done()
			err := d.sender.Send(ctx, recipient, a)
			report.Results[i] = RecipientResult{Recipient: recipient, Err: err}
			if err != nil && d.log != nil {
				d.log.Infow("alert_send_failed", "err", err, "recipient", recipient, "kind", a.Kind)
			}
		}(i, recipient)
	}
	wg.Wait()

	for _, r := range report.Results {
		if r.Err != nil {
			report.Failure++
		} else {
			report.Success++
		}
	}
	return report
}
