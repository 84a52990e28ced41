package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"sneakwatch/internal/misc"
)

// Client talks to the external scraper service that does the actual
// searching, price fetching and fee calculation. The service is a
// black box: only success, failure and response shape matter here.
type Client struct {
	*http.Client
	BaseURL string
	Logger  logger
}

type logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}

var ErrItemNotFound = errors.New("item not found")

func (c Client) newRequest(ctx context.Context, method string, url string, body io.Reader) (*http.Request, error) {
	r, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	r.Header.Set("User-Agent", "sneakwatch")
	r.Header.Set("Accept", "application/json")
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	return r, nil
}

// postJSON posts reqBody to path and decodes the response into out.
func (c Client) postJSON(ctx context.Context, path string, reqBody any, out any) error {
	b, err := json.Marshal(reqBody)
	if err != nil {
		return errors.Wrapf(err, "error marshalling request body for: %s", path)
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return errors.Wrapf(err, "error creating request for: %s", path)
	}
	resp, err := c.Do(req)
	if err != nil {
		return errors.Wrapf(err, "error sending request to: %s", path)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.Logger.Errorf("postJSON: Error closing response body for: %s, err: %v", path, err)
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return errors.Wrapf(ErrItemNotFound, "got status 404 from: %s", path)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return errors.Errorf("got status %d from: %s, body: %s", resp.StatusCode, path, misc.BytesLimit(body, 500))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "error decoding response from: %s", path)
	}
	return nil
}
