package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
	"github.com/coffeeassessoria/sparkboard-automation/pkg/circuitbreaker"
)

// TaskClient fetches active tasks from the task service over HTTP. It backs
// the periodic due-date check; lifecycle events arrive over MQ instead. A
// circuit breaker keeps a dead task service from stalling every poll tick.
type TaskClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

func NewTaskClient(baseURL string) *TaskClient {
	return &TaskClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second, // the poller must not wedge on a slow peer
		},
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
	}
}

// ListActive returns every task that is not in the terminal status.
func (c *TaskClient) ListActive(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := c.breaker.Execute(func() error {
		var err error
		tasks, err = c.listActive(ctx)
		return err
	})
	return tasks, err
}

func (c *TaskClient) listActive(ctx context.Context) ([]model.Task, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tasks?active=true", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("task service 5xx: %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("task service error: %d", resp.StatusCode)
	}

	var tasks []model.Task
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
