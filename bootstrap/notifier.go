package bootstrap

import "log"

// Notifier delivers out-of-band messages to a connected client, such as
// startup progress or error reports.
type Notifier interface {
	Notify(message string)
}

// noopNotifier is used when no client transport is attached.
type noopNotifier struct{}

func (noopNotifier) Notify(message string) {
	log.Printf("[NOTIFY] No websocket connection open, dropping message: %s", message)
}
