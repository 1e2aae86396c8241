// Package main provides a CLI client for triggering and watching dispatch
// sessions.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sereenat7/DISHA-sub001/internal/domain"
	"github.com/sereenat7/DISHA-sub001/internal/feed"
	"github.com/sereenat7/DISHA-sub001/internal/roster"
)

// Client talks to the dispatcher's public HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Trigger starts a dispatch session.
func (c *Client) Trigger(req *domain.TriggerRequest) (*domain.TriggerResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+"/v1/dispatches", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("trigger: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("dispatcher error [%d]: %s", resp.StatusCode, string(data))
	}

	var out domain.TriggerResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &out, nil
}

// Summary fetches the human-readable report for a session.
func (c *Client) Summary(sessionID string) (string, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/v1/dispatches/" + url.PathEscape(sessionID) + "/summary")
	if err != nil {
		return "", fmt.Errorf("summary: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("dispatcher error [%d]: %s", resp.StatusCode, string(data))
	}
	return string(data), nil
}

// watchFeed streams feed events for a session until it reaches a terminal
// state.
func watchFeed(baseURL, sessionID string) error {
	wsURL, err := feedURL(baseURL, sessionID)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	fmt.Printf("Watching session %s...\n", sessionID)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return fmt.Errorf("read: %w", err)
			}
			return nil
		}

		var evt feed.FeedEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			log.Printf("Unmarshal error: %v", err)
			continue
		}

		// Pretty print the payload
		var pretty map[string]interface{}
		json.Unmarshal(evt.Payload, &pretty)
		formatted, _ := json.MarshalIndent(pretty, "", "  ")
		fmt.Printf("\n[%s]\n%s\n", evt.Type, string(formatted))

		switch evt.Type {
		case "session_complete", "session_failed", "session_cancelled":
			return nil
		}
	}
}

// feedURL converts the HTTP base URL into the session's feed WebSocket URL.
func feedURL(baseURL, sessionID string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse addr: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/v1/feed"
	u.RawQuery = "session=" + url.QueryEscape(sessionID)
	return u.String(), nil
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "dispatcher base URL")
	rosterPath := flag.String("roster", "", "roster file to dispatch to")
	rounds := flag.Int("rounds", 0, "override the number of call rounds")
	wait := flag.String("wait", "", "override the pause between rounds, e.g. 40s")
	origin := flag.String("origin", "", "override the origin number")
	watch := flag.Bool("watch", false, "stream session events until the session finishes")
	session := flag.String("session", "", "watch an existing session instead of triggering")
	summaryID := flag.String("summary", "", "print the summary of a finished session and exit")
	flag.Parse()

	log.SetFlags(log.Ltime)

	client := NewClient(*addr)

	if *summaryID != "" {
		text, err := client.Summary(*summaryID)
		if err != nil {
			log.Fatalf("Summary failed: %v", err)
		}
		fmt.Println(text)
		return
	}

	if *session != "" {
		if err := watchFeed(*addr, *session); err != nil {
			log.Fatalf("Watch failed: %v", err)
		}
		return
	}

	req := &domain.TriggerRequest{}
	if *rosterPath != "" {
		r, err := roster.Load(*rosterPath)
		if err != nil {
			log.Fatalf("Failed to load roster: %v", err)
		}
		req.Contacts = r.Contacts
		req.NumRounds = r.NumRounds
		waitMs := r.WaitBetween.Milliseconds()
		req.WaitBetweenMs = &waitMs
		req.OriginNumber = r.OriginNumber
	}
	if *rounds > 0 {
		req.NumRounds = *rounds
	}
	if *wait != "" {
		d, err := time.ParseDuration(*wait)
		if err != nil {
			log.Fatalf("Invalid -wait value: %v", err)
		}
		waitMs := d.Milliseconds()
		req.WaitBetweenMs = &waitMs
	}
	if *origin != "" {
		req.OriginNumber = *origin
	}

	fmt.Printf("Triggering dispatch at %s...\n", *addr)

	resp, err := client.Trigger(req)
	if err != nil {
		log.Fatalf("Trigger failed: %v", err)
	}

	fmt.Printf("Session accepted: %s (%d contacts, %d rounds)\n", resp.SessionID, resp.ContactCount, resp.NumRounds)

	if *watch {
		if err := watchFeed(*addr, resp.SessionID); err != nil {
			log.Fatalf("Watch failed: %v", err)
		}
		fmt.Printf("\nFetch the final report with: dispatchctl -addr %s -summary %s\n", *addr, resp.SessionID)
	}
}
