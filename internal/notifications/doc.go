// Package notifications publishes resolution lifecycle events to ntfy
// when a topic is configured, and degrades to a noop otherwise.
package notifications
