package email

import (
	"context"
	"errors"
	"time"
)

// Sender delivers shift-alert notifications: a character's long-run
// emotional baseline moved enough to be worth a human's attention
// (spec §9 supplemented feature — History.Subscribe observers relay
// through this interface).
type Sender interface {
	SendShiftAlert(ctx context.Context, toEmail, characterID string, shift ShiftNotice, firedAt time.Time) error
}

// ShiftNotice is the mailer-facing projection of an engine shift
// record.
type ShiftNotice struct {
	Emotion    string
	From       float64
	To         float64
	CauseLabel string
}

type disabledSender struct {
	reason string
}

// NewDisabledSender returns a Sender that always fails with reason,
// used when no SMTP host is configured.
func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendShiftAlert(_ context.Context, _, _ string, _ ShiftNotice, _ time.Time) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
