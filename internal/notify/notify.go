// Package notify delivers order notifications to the operators' chat.
package notify

import (
	"context"
)

// Notifier sends a rendered message to the operator channel.
type Notifier interface {
	// Notify delivers text once. It does not retry.
	Notify(ctx context.Context, text string) error
}
