package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gamekeep/internal/config"
)

const userAgent = "Gamekeep/0.1.0"

// Service defines the notification surface exposed to the resolution
// pipeline.
type Service interface {
	NotifyResolutionMatched(ctx context.Context, rawTitle, matchedName string) error
	NotifyNoMatch(ctx context.Context, searchedTerm string) error
	NotifyResolutionError(ctx context.Context, rawTitle string, err error) error
	NotifySessionCompleted(ctx context.Context, resolved, unresolved int) error
	TestNotification(ctx context.Context) error
}

// NewNop returns a Service that discards every event.
func NewNop() Service { return noopService{} }

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:     topic,
		client:       &http.Client{Timeout: timeout},
		resolution:   cfg.Notifications.Resolution,
		errorsWanted: cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	resolution   bool
	errorsWanted bool
}

func (n *ntfyService) NotifyResolutionMatched(ctx context.Context, rawTitle, matchedName string) error {
	if !n.resolution {
		return nil
	}
	rawTitle = strings.TrimSpace(rawTitle)
	matchedName = strings.TrimSpace(matchedName)
	data := payload{
		title:   "Gamekeep - Game Identified",
		message: fmt.Sprintf("Identified %q as %s", rawTitle, matchedName),
		tags:    []string{"gamekeep", "resolve", "matched"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyNoMatch(ctx context.Context, searchedTerm string) error {
	if !n.resolution {
		return nil
	}
	data := payload{
		title:   "Gamekeep - No Match",
		message: fmt.Sprintf("No catalog match for %q", strings.TrimSpace(searchedTerm)),
		tags:    []string{"gamekeep", "resolve", "no-match"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyResolutionError(ctx context.Context, rawTitle string, err error) error {
	if !n.errorsWanted {
		return nil
	}
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	data := payload{
		title:    "Gamekeep - Resolution Error",
		message:  fmt.Sprintf("Lookup for %q failed: %s", strings.TrimSpace(rawTitle), msg),
		tags:     []string{"gamekeep", "resolve", "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySessionCompleted(ctx context.Context, resolved, unresolved int) error {
	if !n.resolution {
		return nil
	}
	data := payload{
		title:   "Gamekeep - Session Complete",
		message: fmt.Sprintf("Resolved %d games, %d need attention", resolved, unresolved),
		tags:    []string{"gamekeep", "session", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:   "Gamekeep - Test",
		message: "Notifications are working",
		tags:    []string{"gamekeep", "test"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyResolutionMatched(context.Context, string, string) error { return nil }
func (noopService) NotifyNoMatch(context.Context, string) error                   { return nil }
func (noopService) NotifyResolutionError(context.Context, string, error) error    { return nil }
func (noopService) NotifySessionCompleted(context.Context, int, int) error        { return nil }
func (noopService) TestNotification(context.Context) error                        { return nil }
