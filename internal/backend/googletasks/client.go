// Package googletasks adapts the Google Tasks API to the envelope transport
// contract, so the same engine can mirror Google task lists. Fields Google
// has no representation for (priority, start date, draft/in-progress
// states) map to zero values.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todosync/internal/config"
	"todosync/internal/transport"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"
)

var _ transport.Transport = (*Client)(nil)

// Client implements transport.Transport using the Google Tasks API.
type Client struct {
	svc *tasks.Service
	cfg *config.Config
}

// New creates a Google Tasks client. Requires oauth_client.json and
// token.json to exist; run the login command first to create them.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read oauth_client.json: %w", config.ErrCredentials, err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid oauth_client.json: %w", config.ErrCredentials, err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read token.json: %w", config.ErrCredentials, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("%w: invalid token.json: %w", config.ErrCredentials, err)
	}

	// Token source auto-refreshes expired access tokens.
	tokenSource := oauthConfig.TokenSource(ctx, &token)
	httpClient := oauth2.NewClient(ctx, tokenSource)

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{svc: svc, cfg: cfg}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc}, nil
}

// ProbeSession implements transport.Transport. A revoked or missing token
// answers as a rejection envelope rather than a hard failure, so the silent
// startup probe lands on "not logged in".
func (c *Client) ProbeSession(ctx context.Context) (transport.Response[transport.User], error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasklists.Get("@default").Context(ctx).Do()
	if err != nil {
		return envelopeError[transport.User](err)
	}
	return ok(transport.User{Login: "googletasks"}), nil
}

// Login implements transport.Transport. Credential login does not exist for
// Google; the login command runs the browser OAuth flow instead.
func (c *Client) Login(ctx context.Context, params transport.LoginParams) (transport.Response[transport.LoginResult], error) {
	return reject[transport.LoginResult]("credential login is not supported by the googletasks backend; run the login command to authorize"), nil
}

// Logout implements transport.Transport. Discards the stored token.
func (c *Client) Logout(ctx context.Context) (transport.Response[transport.Empty], error) {
	if c.cfg != nil && c.cfg.HasToken() {
		if err := c.cfg.RemoveToken(); err != nil {
			return transport.Response[transport.Empty]{}, fmt.Errorf("failed to remove token: %w", err)
		}
	}
	return ok(transport.Empty{}), nil
}

// GetLists implements transport.Transport.
func (c *Client) GetLists(ctx context.Context) (transport.Response[[]transport.List], error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []transport.List
	err := c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			result = append(result, transport.List{
				ID:        list.Id,
				Title:     list.Title,
				AddedDate: list.Updated,
				Order:     len(result),
			})
		}
		return nil
	})
	if err != nil {
		return envelopeError[[]transport.List](err)
	}
	return ok(result), nil
}

// CreateList implements transport.Transport.
func (c *Client) CreateList(ctx context.Context, title string) (transport.Response[transport.List], error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	created, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: title}).Context(ctx).Do()
	if err != nil {
		return envelopeError[transport.List](err)
	}
	return ok(transport.List{ID: created.Id, Title: created.Title, AddedDate: created.Updated}), nil
}

// DeleteList implements transport.Transport.
func (c *Client) DeleteList(ctx context.Context, listID string) (transport.Response[transport.Empty], error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasklists.Delete(listID).Context(ctx).Do(); err != nil {
		return envelopeError[transport.Empty](err)
	}
	return ok(transport.Empty{}), nil
}

// RenameList implements transport.Transport.
func (c *Client) RenameList(ctx context.Context, listID, title string) (transport.Response[transport.Empty], error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasklists.Patch(listID, &tasks.TaskList{Title: title}).Context(ctx).Do()
	if err != nil {
		return envelopeError[transport.Empty](err)
	}
	return ok(transport.Empty{}), nil
}

// GetItems implements transport.Transport. Completed tasks are included so
// the mirror carries the full sequence.
func (c *Client) GetItems(ctx context.Context, listID string) (transport.Response[[]transport.Item], error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []transport.Item
	err := c.svc.Tasks.List(listID).
		MaxResults(100).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, task := range resp.Items {
				result = append(result, itemFromTask(listID, task, len(result)))
			}
			return nil
		})
	if err != nil {
		return envelopeError[[]transport.Item](err)
	}
	return ok(result), nil
}

// CreateItem implements transport.Transport.
func (c *Client) CreateItem(ctx context.Context, listID, title string) (transport.Response[transport.Item], error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	created, err := c.svc.Tasks.Insert(listID, &tasks.Task{Title: title}).Context(ctx).Do()
	if err != nil {
		return envelopeError[transport.Item](err)
	}
	return ok(itemFromTask(listID, created, 0)), nil
}

// DeleteItem implements transport.Transport.
func (c *Client) DeleteItem(ctx context.Context, listID, itemID string) (transport.Response[transport.Empty], error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(listID, itemID).Context(ctx).Do(); err != nil {
		return envelopeError[transport.Empty](err)
	}
	return ok(transport.Empty{}), nil
}

// UpdateItem implements transport.Transport. The full field set maps onto
// the Google task; unsupported fields are dropped on the wire and retained
// only locally.
func (c *Client) UpdateItem(ctx context.Context, listID, itemID string, model transport.UpdateItemModel) (transport.Response[transport.Item], error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	patch := &tasks.Task{
		Title:  model.Title,
		Notes:  model.Description,
		Due:    model.Deadline,
		Status: "needsAction",
	}
	if model.Status == transport.StatusCompleted {
		patch.Status = "completed"
	}
	patch.ForceSendFields = []string{"Status"}

	updated, err := c.svc.Tasks.Patch(listID, itemID, patch).Context(ctx).Do()
	if err != nil {
		return envelopeError[transport.Item](err)
	}
	item := itemFromTask(listID, updated, 0)
	item.Priority = model.Priority
	item.StartDate = model.StartDate
	return ok(item), nil
}

func itemFromTask(listID string, task *tasks.Task, order int) transport.Item {
	st := transport.StatusNew
	if task.Status == "completed" {
		st = transport.StatusCompleted
	}
	return transport.Item{
		ID:          task.Id,
		ListID:      listID,
		Title:       task.Title,
		Description: task.Notes,
		Status:      st,
		Deadline:    task.Due,
		AddedDate:   task.Updated,
		Order:       order,
	}
}

func ok[D any](data D) transport.Response[D] {
	return transport.Response[D]{ResultCode: transport.ResultCodeSuccess, Data: data}
}

func reject[D any](message string) transport.Response[D] {
	return transport.Response[D]{ResultCode: 1, Messages: []string{message}}
}

// envelopeError translates a Google API error. Responses the server did
// produce become rejection envelopes; anything else stays a transport-level
// error.
func envelopeError[D any](err error) (transport.Response[D], error) {
	var zero transport.Response[D]
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return reject[D]("token expired or revoked (run the login command)"), nil
		case http.StatusNotFound:
			return reject[D]("not found"), nil
		default:
			return reject[D](apiErr.Message), nil
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return zero, fmt.Errorf("request timed out")
	}
	return zero, err
}
