package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/gorilla/websocket"

	"github.com/MKRNaqeebi/GenAlima/internal/auth"
	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/transport/ws"
)

// Client logs in over HTTP and exchanges completion frames over the websocket.
type Client struct {
	baseURL string
	http    *resty.Client
	conn    *websocket.Conn
	token   string
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		baseURL: baseURL,
		http:    resty.New().SetBaseURL(baseURL).SetHeader("User-Agent", "genalima-cli"),
	}
}

// Login exchanges credentials for an access token.
func (c *Client) Login(email, password string) error {
	var tok domain.Token
	resp, err := c.http.R().
		SetFormData(map[string]string{"username": email, "password": password}).
		SetResult(&tok).
		Post("/api/v1/login/access-token")
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("login: %s: %s", resp.Status(), strings.TrimSpace(resp.String()))
	}
	if tok.AccessToken == "" {
		return errors.New("login: empty access token")
	}
	c.token = tok.AccessToken
	return nil
}

// WebsocketURL returns the completion websocket address for the base URL.
func (c *Client) WebsocketURL() string {
	u := c.baseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/api/v1/completions/ws"
}

// Connect dials the websocket with the access token from Login.
func (c *Client) Connect() error {
	if c.token == "" {
		return errors.New("not logged in")
	}
	addr := c.WebsocketURL() + "?" + auth.QueryTokenParam + "=" + url.QueryEscape(c.token)
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	c.conn = conn
	return nil
}

// Ask sends one query and waits for its answer frame.
func (c *Client) Ask(query, templateID, chatID string) (ws.Frame, error) {
	if c.conn == nil {
		return ws.Frame{}, errors.New("not connected")
	}
	in := domain.CompletionInput{Query: query, ChatID: chatID}
	if chatID == "" {
		in.TemplateID = templateID
	}
	if err := c.conn.WriteJSON(in); err != nil {
		return ws.Frame{}, fmt.Errorf("write: %w", err)
	}
	var f ws.Frame
	if err := c.conn.ReadJSON(&f); err != nil {
		return ws.Frame{}, fmt.Errorf("read: %w", err)
	}
	return f, nil
}

// Close closes the websocket.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

// Render formats a frame for the terminal.
func Render(f ws.Frame) string {
	if f.Type == ws.TypeError {
		return fmt.Sprintf("[error %s] %s", f.Code, f.Message)
	}
	var b strings.Builder
	for i, m := range f.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%s] %s", m.Role, m.Content)
	}
	return b.String()
}
