package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const defaultTimeout = 90 * time.Second

// Client calls the workspace API. Every request goes through Transport.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, ts oauth2.TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: &Transport{Source: ts},
		},
	}
}

// NewWithHTTPClient wraps hc's transport with the token augmenter.
func NewWithHTTPClient(baseURL string, ts oauth2.TokenSource, hc *http.Client) *Client {
	c := *hc
	c.Transport = &Transport{Source: ts, Base: hc.Transport}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: &c}
}

func (c *Client) CreateProject(ctx context.Context, name string) (*Project, error) {
	var out struct {
		Project Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodPost, "/projects/create", map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out.Project, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var out struct {
		Projects []Project `json:"projects"`
	}
	if err := c.do(ctx, http.MethodGet, "/projects/all", nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

func (c *Client) GetProject(ctx context.Context, projectID string) (*Project, error) {
	var out struct {
		Project Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodGet, "/projects/get-project/"+url.PathEscape(projectID), nil, &out); err != nil {
		return nil, err
	}
	return &out.Project, nil
}

func (c *Client) AddUsers(ctx context.Context, projectID string, userIDs []string) (*Project, error) {
	body := map[string]any{"projectId": projectID, "users": userIDs}
	var out struct {
		Project Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodPut, "/projects/add-user", body, &out); err != nil {
		return nil, err
	}
	return &out.Project, nil
}

func (c *Client) UpdateFileTree(ctx context.Context, projectID string, tree map[string]any) (*Project, error) {
	if tree == nil {
		tree = map[string]any{}
	}
	body := map[string]any{"projectId": projectID, "fileTree": tree}
	var out struct {
		Project Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodPut, "/projects/update-file-tree", body, &out); err != nil {
		return nil, err
	}
	return &out.Project, nil
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out struct {
		Users []User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/all", nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// Logout ends the session. revoked is false when the server has no
// revocation store, in which case the token stays valid until it expires.
func (c *Client) Logout(ctx context.Context) (revoked bool, err error) {
	var out struct {
		TokenRevoked bool `json:"tokenRevoked"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/logout", nil, &out); err != nil {
		return false, err
	}
	return out.TokenRevoked, nil
}

// GenerateResult returns the model's raw answer. Use ParseAIResult to decode it.
func (c *Client) GenerateResult(ctx context.Context, prompt string) (string, error) {
	resp, err := c.send(ctx, http.MethodGet, "/ai/get-result?prompt="+url.QueryEscape(prompt), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(raw), nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	resp, err := c.send(ctx, method, path, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send performs the request and converts non-2xx responses into *APIError.
func (c *Client) send(ctx context.Context, method, path string, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	return nil, decodeAPIError(resp)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Error  string       `json:"error"`
		Errors []FieldError `json:"errors"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		apiErr.Message = payload.Error
		apiErr.Fields = payload.Errors
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
