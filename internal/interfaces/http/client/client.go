// Package client 提供生成接口的 HTTP 客户端
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"story-weaver-api/internal/interfaces/http/dto"
)

// APIError 非 2xx 响应
type APIError struct {
	Status  int
	Message string
	// Detail 服务端 500 响应中的 error 字段
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("generate api returned %d: %s: %s", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("generate api returned %d: %s", e.Status, e.Message)
}

// Client 生成接口客户端
type Client struct {
	endpoint string
	http     *http.Client
}

// New 创建客户端，timeout <= 0 时不设超时
func New(endpoint string, timeout time.Duration) *Client {
	hc := &http.Client{}
	if timeout > 0 {
		hc.Timeout = timeout
	}
	return &Client{endpoint: endpoint, http: hc}
}

// NewWithHTTPClient 使用自定义 http.Client
func NewWithHTTPClient(endpoint string, hc *http.Client) *Client {
	return &Client{endpoint: endpoint, http: hc}
}

// Generate 提交提示词并返回生成文本
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(dto.GenerateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var fail dto.FailureResponse
		if json.Unmarshal(body, &fail) == nil {
			if fail.Message != "" {
				apiErr.Message = fail.Message
			}
			apiErr.Detail = fail.Error
		}
		return "", apiErr
	}

	var out dto.GenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return out.Response, nil
}
