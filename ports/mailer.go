package ports

import (
	"context"

	"github.com/layer-3/warden/core"
)

// Mailer delivers a message to a user over an out-of-band channel
type Mailer interface {
	Send(ctx context.Context, to core.Email, subject, body string) error
}
