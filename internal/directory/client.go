package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	directoryerrors "hrflow/internal/directory/errors"
	"hrflow/internal/shared/response"
)

// Client is the Directory implementation used when the employee directory
// runs as a separate deployment. All three operations are idempotent
// reads, so each call gets a short timeout and a single retry; concurrent
// identical lookups are collapsed through singleflight.
type Client struct {
	baseURL    string
	credential string
	httpClient *http.Client
	group      singleflight.Group
	logger     *zap.Logger
}

func NewClient(baseURL, credential string, logger ...*zap.Logger) *Client {
	l := zap.L().Named("directory.client")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("directory.client")
	}
	return &Client{
		baseURL:    baseURL,
		credential: credential,
		httpClient: &http.Client{Timeout: 2 * time.Second},
		logger:     l,
	}
}

func (c *Client) EmployeesUnderManager(ctx context.Context, managerID string) ([]string, error) {
	return c.getIDs(ctx, fmt.Sprintf("%s/api/v1/employees/under-manager/%s", c.baseURL, managerID))
}

func (c *Client) ManagerOf(ctx context.Context, employeeID string) (string, error) {
	url := fmt.Sprintf("%s/api/v1/employees/%s/manager", c.baseURL, employeeID)
	v, err, _ := c.group.Do(url, func() (any, error) {
		var managerID string
		if err := c.getJSON(ctx, url, &managerID); err != nil {
			return "", err
		}
		return managerID, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) AllEmployeeIDs(ctx context.Context) ([]string, error) {
	return c.getIDs(ctx, fmt.Sprintf("%s/api/v1/employees/ids", c.baseURL))
}

func (c *Client) getIDs(ctx context.Context, url string) ([]string, error) {
	v, err, _ := c.group.Do(url, func() (any, error) {
		var ids []string
		if err := c.getJSON(ctx, url, &ids); err != nil {
			return nil, err
		}
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			c.logger.Warn("directory call retrying", zap.String("url", url), zap.Error(lastErr))
		}

		lastErr = c.doOnce(ctx, url, out)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}
	c.logger.Error("directory call failed", zap.String("url", url), zap.Error(lastErr))
	return directoryerrors.ErrDirectoryUnavailable
}

func (c *Client) doOnce(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.credential)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var env struct {
		Data    json.RawMessage     `json:"data"`
		Success bool                `json:"success"`
		Message string              `json:"message"`
		Error   *response.ErrorBody `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return err
	}
	if res.StatusCode != http.StatusOK || !env.Success {
		if env.Error != nil {
			return fmt.Errorf("directory answered %d: %s", res.StatusCode, env.Error.Message)
		}
		return fmt.Errorf("directory answered %d", res.StatusCode)
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}
