// Package notify is the out-of-band delivery capability. Delivery failure
// is never fatal to the operation that requested it; callers log and move on.
package notify

import "context"

type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
