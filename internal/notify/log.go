package notify

import (
	"context"
	"log"
)

// LogNotifier writes notifications to the server log. Default when no
// email provider is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Publish(ctx context.Context, message string) error {
	log.Printf("📨 [Notify] %s", message)
	return nil
}
