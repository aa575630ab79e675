package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// resultRequest mirrors the kqxs API request model.
type resultRequest struct {
	Date         string `json:"date"`
	ResultURL    string `json:"result_url,omitempty"`
	Column       string `json:"column"`
	IsNight      bool   `json:"isNight"`
	IsVn         bool   `json:"isVn"`
	OutputFormat string `json:"output_format,omitempty"`
}

// healthResponse mirrors the kqxs health response.
type healthResponse struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	Version      string `json:"version"`
	SessionStats struct {
		BrowserLive bool  `json:"browser_live"`
		Leased      bool  `json:"leased"`
		Launches    int64 `json:"launches"`
		Waiting     int   `json:"waiting"`
	} `json:"session_stats"`
}

// apiClient calls the kqxs HTTP API.
type apiClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func newClient(baseURL, apiKey string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		// Browser work is serialised server-side, so a call may queue.
		http: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

func lotteryResultTool() mcp.Tool {
	return mcp.NewTool("lottery_result",
		mcp.WithDescription("Fetch lottery results for a draw date. Vietnam results come from minhngoc pages or the results aggregator; other results come from the shift schedule site. Returns the prize cells, one per line."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Draw date, e.g. 2024-05-01"),
		),
		mcp.WithString("result_url",
			mcp.Description("A minhngoc result page URL, a section title on the aggregator (e.g. 'TP. HCM'), or a shift name for non-Vietnam draws"),
		),
		mcp.WithString("column",
			mcp.Description("Province column on multi-province pages (default: V1)"),
			mcp.Enum("V1", "V2", "V3"),
		),
		mcp.WithBoolean("is_vn",
			mcp.Description("Use the Vietnam providers (default: true)"),
		),
		mcp.WithBoolean("is_night",
			mcp.Description("Evening draw (default: false)"),
		),
		mcp.WithString("output_format",
			mcp.Description("Output format: 'html' (default), 'text' or 'markdown'"),
			mcp.Enum("html", "text", "markdown"),
		),
	)
}

func handleLotteryResult(c *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := request.RequireString("date")
		if err != nil {
			return mcp.NewToolResultError("date is required"), nil
		}

		body, err := json.Marshal(resultRequest{
			Date:         date,
			ResultURL:    request.GetString("result_url", ""),
			Column:       request.GetString("column", "V1"),
			IsVn:         request.GetBool("is_vn", true),
			IsNight:      request.GetBool("is_night", false),
			OutputFormat: request.GetString("output_format", ""),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal request: %v", err)), nil
		}

		status, respBody, err := c.do(ctx, http.MethodPost, "/api/scrap-result", body)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if status != http.StatusOK {
			return mcp.NewToolResultError(fmt.Sprintf("[%d] %s", status, strings.TrimSpace(string(respBody)))), nil
		}

		if len(respBody) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}
		return mcp.NewToolResultText(string(respBody)), nil
	}
}

func sessionHealthTool() mcp.Tool {
	return mcp.NewTool("session_health",
		mcp.WithDescription("Report whether the scraper is up and whether its browser session is busy."),
	)
}

func handleSessionHealth(c *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status, respBody, err := c.do(ctx, http.MethodGet, "/api/v1/health", nil)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if status != http.StatusOK {
			return mcp.NewToolResultError(fmt.Sprintf("health check returned %d", status)), nil
		}

		var h healthResponse
		if err := json.Unmarshal(respBody, &h); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf(
			"Status: %s\nUptime: %s\nVersion: %s\nBrowser live: %t\nLeased: %t\nQueued: %d\nLaunches: %d",
			h.Status, h.Uptime, h.Version,
			h.SessionStats.BrowserLive, h.SessionStats.Leased, h.SessionStats.Waiting, h.SessionStats.Launches,
		)), nil
	}
}
