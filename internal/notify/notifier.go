package notify

import "context"

// Notifier publishes messages about feedback activity to an
// out-of-band channel. Implementations are best-effort; callers fire
// them from a goroutine and must not fail the request on delivery
// errors.
type Notifier interface {
	Publish(ctx context.Context, message string) error
}
