package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/muhlenberg/searchengine/internal/apperror"
)

// httpClient is a minimal laura-db-style document store client: one HTTP
// request per document operation, a small JSON envelope for the response. It
// knows nothing about Documents or InvertedIndex specifically; LauraStore
// layers that shape on top of two collections.
type httpClient struct {
	baseURL string
	http    *http.Client
}

// apiResponse is the envelope every endpoint replies with.
type apiResponse struct {
	OK      bool            `json:"ok"`
	Result  json.RawMessage `json:"result,omitempty"`
	Count   *int            `json:"count,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

func newHTTPClient(cs *connString) *httpClient {
	h := cs.firstHost()
	return &httpClient{
		baseURL: fmt.Sprintf("http://%s:%d/%s", h.Host, h.Port, url.PathEscape(cs.Database)),
		http: &http.Client{
			Timeout: cs.Timeout,
		},
	}
}

func (c *httpClient) do(ctx context.Context, method, path string, body any) (*apiResponse, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: encode request: %v", apperror.ErrStoreWriteFailed, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", apperror.ErrStoreConnectFailed, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrStoreConnectFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", apperror.ErrStoreReadFailed, err)
	}

	var out apiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", apperror.ErrStoreReadFailed, err)
	}
	if !out.OK {
		return &out, fmt.Errorf("store: %s: %s", out.Error, out.Message)
	}
	return &out, nil
}

// collection is a handle to one named collection within the database.
type collection struct {
	client *httpClient
	name   string
}

func (c *collection) insertWithID(ctx context.Context, id string, doc any) error {
	path := fmt.Sprintf("/%s/_doc/%s", url.PathEscape(c.name), url.PathEscape(id))
	_, err := c.client.do(ctx, http.MethodPut, path, doc)
	if isDuplicate(err) {
		return apperror.ErrDuplicateKey
	}
	return err
}

func (c *collection) findOne(ctx context.Context, id string) (json.RawMessage, bool, error) {
	path := fmt.Sprintf("/%s/_doc/%s", url.PathEscape(c.name), url.PathEscape(id))
	resp, err := c.client.do(ctx, http.MethodGet, path, nil)
	if isNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", apperror.ErrStoreReadFailed, err)
	}
	return resp.Result, true, nil
}

func (c *collection) updateOne(ctx context.Context, id string, update any) error {
	path := fmt.Sprintf("/%s/_doc/%s", url.PathEscape(c.name), url.PathEscape(id))
	_, err := c.client.do(ctx, http.MethodPatch, path, update)
	return err
}

func (c *collection) distinctIDs(ctx context.Context) ([]string, error) {
	path := fmt.Sprintf("/%s/_distinct", url.PathEscape(c.name))
	resp, err := c.client.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrStoreReadFailed, err)
	}
	var ids []string
	if err := json.Unmarshal(resp.Result, &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrStoreReadFailed, err)
	}
	return ids, nil
}

func (c *collection) count(ctx context.Context) (int, error) {
	path := fmt.Sprintf("/%s/_count", url.PathEscape(c.name))
	resp, err := c.client.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperror.ErrStoreReadFailed, err)
	}
	if resp.Count == nil {
		return 0, nil
	}
	return *resp.Count, nil
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "not found")
}

func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "duplicate")
}
