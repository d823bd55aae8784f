package jobs

import (
	"context"
	"time"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/logging"
	"github.com/carson-networks/udhaar-ledger/internal/report"
	"github.com/carson-networks/udhaar-ledger/internal/service"
)

// Notifier delivers a text message to a phone number.
type Notifier interface {
	Send(ctx context.Context, phone, message string) error
}

type customerLister interface {
	List(ctx context.Context, filter service.CustomerFilter) ([]ledger.Customer, error)
}

// ReminderJob messages every overdue customer. A failed send is logged and
// the run carries on with the next customer.
type ReminderJob struct {
	Customers    customerLister
	Notifier     Notifier
	OverdueAfter time.Duration
	Now          func() time.Time
}

func (r *ReminderJob) Name() string {
	return "Reminder"
}

func (r *ReminderJob) Run(ctx context.Context) error {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	logData := logging.GetLogData(ctx)

	customers, err := r.Customers.List(ctx, service.CustomerFilter{Status: service.CustomerStatusDue})
	if err != nil {
		return err
	}

	overdue := report.Overdue(customers, now(), r.OverdueAfter)
	sent, failed := 0, 0
	for _, c := range overdue {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Notifier.Send(ctx, c.Phone, report.ReminderMessage(c)); err != nil {
			failed++
			logData.Log().WithError(err).WithField("customerID", c.ID).Warn("Job.Reminder.SendFailed")
			continue
		}
		sent++
	}

	logData.AddData("overdue", len(overdue))
	logData.AddData("sent", sent)
	logData.AddData("failed", failed)
	return nil
}
