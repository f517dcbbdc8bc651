package interfaces

import "context"

// Notifier sends outbound messages to the chat platform. PostMessage returns
// the platform's identifier for the posted message (the Slack timestamp),
// which keys the pending-request registry.
type Notifier interface {
	PostMessage(ctx context.Context, channel, text string) (string, error)
	PostEphemeral(ctx context.Context, channel, user, text string) error
}
