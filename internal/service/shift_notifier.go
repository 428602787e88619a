package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"soulengine/internal/domain"
	"soulengine/internal/email"
	"soulengine/internal/engine"
)

// ShiftNotifier relays every baseline shift recorded by an engine's
// History component to a configured mailbox, via History.Subscribe.
// It is wired once at startup and never touched by request handling.
type ShiftNotifier struct {
	sender email.Sender
	toAddr string
	log    *zap.Logger
}

func NewShiftNotifier(sender email.Sender, toAddr string, log *zap.Logger) *ShiftNotifier {
	return &ShiftNotifier{sender: sender, toAddr: toAddr, log: log}
}

// Attach registers the notifier as a shift observer on hist. Safe to
// call once per process; hist fires observers synchronously from
// inside Core.ApplyInteraction, so SendShiftAlert runs on the
// request-handling goroutine.
func (n *ShiftNotifier) Attach(hist *engine.History) {
	hist.Subscribe(func(char *domain.Character, shift domain.Shift) {
		if n.toAddr == "" {
			return
		}
		notice := email.ShiftNotice{
			Emotion:    string(shift.Emotion),
			From:       shift.From,
			To:         shift.To,
			CauseLabel: shift.CauseLabel,
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := n.sender.SendShiftAlert(ctx, n.toAddr, char.ID, notice, time.Now()); err != nil {
			n.log.Warn("shift alert send failed", zap.String("character_id", char.ID), zap.Error(err))
		}
	})
}
