package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// PushResult is the delivery report returned by the notify-all function.
// Removed counts subscriptions that were pruned because the endpoint is gone.
type PushResult struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Removed int `json:"removed"`
}

// Broadcaster pushes a notification to every registered subscription.
type Broadcaster interface {
	Push(ctx context.Context, title, body string) (PushResult, error)
}

// HTTPBroadcaster calls the hosted notify-all function, which holds the VAPID
// keys and the subscription table.
type HTTPBroadcaster struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

// NewHTTPBroadcaster creates a broadcaster posting to {baseURL}/notify-all.
func NewHTTPBroadcaster(baseURL, serviceKey string, timeout time.Duration) *HTTPBroadcaster {
	return &HTTPBroadcaster{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: timeout},
	}
}

func (b *HTTPBroadcaster) Push(ctx context.Context, title, body string) (PushResult, error) {
	payload, err := json.Marshal(map[string]string{"title": title, "body": body})
	if err != nil {
		return PushResult{}, fmt.Errorf("encoding push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.baseURL+"/notify-all", bytes.NewReader(payload))
	if err != nil {
		return PushResult{}, fmt.Errorf("building push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.serviceKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return PushResult{}, fmt.Errorf("calling notify-all function: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return PushResult{}, fmt.Errorf("notify-all returned status %d", resp.StatusCode)
	}

	var result PushResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return PushResult{}, fmt.Errorf("decoding push result: %w", err)
	}
	return result, nil
}

// ConsoleBroadcaster logs pushes instead of delivering them.
type ConsoleBroadcaster struct {
	logger *slog.Logger
}

func NewConsoleBroadcaster(logger *slog.Logger) *ConsoleBroadcaster {
	return &ConsoleBroadcaster{logger: logger}
}

func (b *ConsoleBroadcaster) Push(_ context.Context, title, body string) (PushResult, error) {
	b.logger.Info("push (console)", "title", title, "body", body)
	return PushResult{}, nil
}

// PushRecorder captures broadcasts for tests.
type PushRecorder struct {
	mu     sync.Mutex
	Err    error
	Result PushResult
	pushes []string
}

func (r *PushRecorder) Push(_ context.Context, title, body string) (PushResult, error) {
	if r.Err != nil {
		return PushResult{}, r.Err
	}
	r.mu.Lock()
	r.pushes = append(r.pushes, title+": "+body)
	r.mu.Unlock()
	return r.Result, nil
}

// Pushes returns a copy of every recorded broadcast.
func (r *PushRecorder) Pushes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.pushes))
	copy(out, r.pushes)
	return out
}
