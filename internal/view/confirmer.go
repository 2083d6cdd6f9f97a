package view

import "context"

const CancelAppointmentPrompt = "¿Cancelar esta cita?"

// Confirmer asks the operator a blocking yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Answer returns a Confirmer that always gives the same answer.
func Answer(accepted bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) {
		return accepted, nil
	})
}
