// Package auth talks to Supabase GoTrue for signup, login and access-token
// verification. The API trusts only what GoTrue says about a token.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	User         User   `json:"user"`
}

type User struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

// Username returns the username recorded at signup, or the empty string.
func (u User) Username() string {
	if v, ok := u.Metadata["username"].(string); ok {
		return v
	}
	return ""
}

// Gang returns the gang chosen at signup, or the empty string.
func (u User) Gang() string {
	if v, ok := u.Metadata["gang"].(string); ok {
		return v
	}
	return ""
}

type gotrueError struct {
	Message   string `json:"msg"`
	ErrorDesc string `json:"error_description"`
}

func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// SignUp registers the account and stashes username and gang in the user
// metadata so EnsurePlayer can seed the profile from the token alone.
func (c *Client) SignUp(ctx context.Context, email, password, username, gang string) (Session, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
		"data": map[string]string{
			"username": username,
			"gang":     gang,
		},
	}
	var out Session
	if err := c.postJSON(ctx, "/auth/v1/signup", payload, &out); err != nil {
		return Session{}, err
	}
	return out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}
	var out Session
	if err := c.postJSON(ctx, "/auth/v1/token?grant_type=password", payload, &out); err != nil {
		return Session{}, err
	}
	return out, nil
}

// Refresh trades a refresh token for a fresh session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	payload := map[string]string{"refresh_token": refreshToken}
	var out Session
	if err := c.postJSON(ctx, "/auth/v1/token?grant_type=refresh_token", payload, &out); err != nil {
		return Session{}, err
	}
	return out, nil
}

// VerifyAccessToken resolves a bearer token to its user, or fails.
func (c *Client) VerifyAccessToken(ctx context.Context, accessToken string) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return User{}, err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("verify token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return User{}, fmt.Errorf("verify token: %s", readGotrueError(resp))
	}
	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	return user, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in any, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("supabase: %s", readGotrueError(resp))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readGotrueError surfaces the GoTrue error body when it parses, otherwise
// the raw status and body text.
func readGotrueError(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	var ge gotrueError
	if err := json.Unmarshal(raw, &ge); err == nil {
		if ge.Message != "" {
			return fmt.Sprintf("status %d: %s", resp.StatusCode, ge.Message)
		}
		if ge.ErrorDesc != "" {
			return fmt.Sprintf("status %d: %s", resp.StatusCode, ge.ErrorDesc)
		}
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
