// Package notify delivers threshold alerts as push notifications. The client
// is constructed once at process start and injected into the pipeline;
// delivery is fire-and-forget and failures are logged, never escalated.
package notify

import "context"

// Notifier sends one push notification to a recipient token.
type Notifier interface {
	Send(ctx context.Context, token, title, body string) error
}
