package notify

import "context"

// Recipient identifica al solicitante a notificar.
type Recipient struct {
	Name  string
	Email string
	Phone string
}

// Payload describe el cambio de estado de una solicitud de adopción.
type Payload struct {
	ApplicationID string
	PetName       string
	OldStatus     string
	NewStatus     string
	Notes         string
}

// Result indica por qué canales salió la notificación.
// Ambos flags son informativos: el workflow nunca falla por esto.
type Result struct {
	EmailSent bool
	SMSSent   bool
}

// Dispatcher es el contrato mínimo que el workflow necesita del
// subsistema de notificaciones (email/SMS viven fuera de este core).
type Dispatcher interface {
	Notify(ctx context.Context, to Recipient, p Payload) (Result, error)
}

// Discard es un dispatcher para dev/tests: no envía nada.
type Discard struct{}

func (Discard) Notify(ctx context.Context, to Recipient, p Payload) (Result, error) {
	return Result{}, nil
}
