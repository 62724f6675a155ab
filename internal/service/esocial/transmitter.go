package esocial

import (
	"context"
	"time"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/domain/esocial"
	"github.com/google/uuid"
)

// SimulatedTransmitter stands in for the government webservice. Every
// well-formed event is acknowledged as accepted with a synthetic receipt.
type SimulatedTransmitter struct{}

func NewSimulatedTransmitter() esocial.Transmitter {
	return &SimulatedTransmitter{}
}

func (t *SimulatedTransmitter) Transmit(ctx context.Context, event esocial.Event) (esocial.EventStatus, map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return esocial.EventStatusError, nil, err
	}

	return esocial.EventStatusAccepted, map[string]any{
		"receipt":      uuid.NewString(),
		"protocol":     uuid.NewString(),
		"processed_at": time.Now().Format(time.RFC3339),
	}, nil
}
