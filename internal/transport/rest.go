package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/sysdash/sysdash/internal/errors"
)

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// ActionResult is the producer's answer to an app action. Message is shown
// to the user verbatim.
type ActionResult struct {
	Success bool
	Message string
}

// Apps fetches the raw /apps inventory payload.
func (c *Client) Apps(ctx context.Context) ([]byte, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/apps", nil)
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		return nil, statusError("Can't load the app inventory", status, body)
	}
	return body, nil
}

// SystemInfo fetches the raw /api/system-info payload.
func (c *Client) SystemInfo(ctx context.Context) ([]byte, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/api/system-info", nil)
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		return nil, statusError("Can't load host information", status, body)
	}
	return body, nil
}

// UninstallApp asks the producer to uninstall the named app. The request
// carries the configured anti-forgery token.
func (c *Client) UninstallApp(ctx context.Context, name string) (ActionResult, error) {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("X-CSRFToken", c.opts.CSRFToken)
	return c.action(ctx, "/uninstall_app/"+url.PathEscape(name), headers, "uninstall "+name)
}

// CleanCache asks the producer to clear the named app's cache.
func (c *Client) CleanCache(ctx context.Context, name string) (ActionResult, error) {
	return c.action(ctx, "/api/clean_cache/"+url.PathEscape(name), nil, "clean the cache of "+name)
}

// action POSTs to path and decodes the {success, message} answer. The
// producer's message is returned even for error statuses, as long as the
// body is JSON.
func (c *Client) action(ctx context.Context, path string, headers http.Header, what string) (ActionResult, error) {
	body, status, err := c.do(ctx, http.MethodPost, path, headers)
	if err != nil {
		return ActionResult{}, err
	}

	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		if status/100 != 2 {
			return ActionResult{}, statusError("Can't "+what, status, body)
		}
		return ActionResult{}, errors.New(errors.ErrDecode,
			fmt.Sprintf("Can't %s: unexpected response from the producer", what),
			"Check that server.url points at the sysdash producer")
	}

	root := gjson.ParseBytes(body)
	res := ActionResult{Message: root.Get("message").String()}
	if s := root.Get("success"); s.Exists() {
		res.Success = s.Bool()
	} else {
		res.Success = status/100 == 2
	}
	if res.Message == "" {
		res.Message = fmt.Sprintf("%s: HTTP %d", what, status)
	}
	c.log.Info("%s: success=%t message=%q", what, res.Success, res.Message)
	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, headers http.Header) ([]byte, int, error) {
	target := c.base.String() + path
	req, err := http.NewRequestWithContext(ctx, method, target, http.NoBody)
	if err != nil {
		return nil, 0, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Can't build request for %s", target), "")
	}
	for k, v := range headers {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("%s %s failed: %v", method, target, err)
		return nil, 0, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Request to %s failed", target),
			"Check that the producer is running and reachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Can't read response from %s", target), "")
	}
	c.log.Debug("%s %s -> %d (%d bytes)", method, target, resp.StatusCode, len(body))
	return body, resp.StatusCode, nil
}

func statusError(message string, status int, body []byte) error {
	cause := fmt.Errorf("HTTP %d %s", status, http.StatusText(status))
	if msg := gjson.GetBytes(body, "message").String(); msg != "" {
		cause = fmt.Errorf("HTTP %d: %s", status, msg)
	}
	return errors.WrapWithCode(cause, errors.ErrTransport, message, "")
}
