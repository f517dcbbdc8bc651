package slackbridge

import (
	"context"

	"github.com/slack-go/slack"

	"leaveledger/internal/interfaces"
)

// Notifier sends channel messages and ephemeral notices through the Slack
// Web API. It is the production implementation of interfaces.Notifier.
type Notifier struct {
	client *slack.Client
}

func New(token string) *Notifier {
	return &Notifier{client: slack.New(token)}
}

// PostMessage posts a channel message and returns its timestamp, which keys
// the pending-request registry.
func (n *Notifier) PostMessage(ctx context.Context, channel, text string) (string, error) {
	_, ts, err := n.client.PostMessageContext(ctx, channel, slack.MsgOptionText(text, false))
	if err != nil {
		return "", err
	}
	return ts, nil
}

// PostEphemeral sends a private notice visible only to the given user.
func (n *Notifier) PostEphemeral(ctx context.Context, channel, user, text string) error {
	_, err := n.client.PostEphemeralContext(ctx, channel, user, slack.MsgOptionText(text, false))
	return err
}

var _ interfaces.Notifier = (*Notifier)(nil)
