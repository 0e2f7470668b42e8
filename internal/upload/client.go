package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// UploadResult is the server's response to a workbook upload.
type UploadResult struct {
	Days     int      `json:"days"`
	Dates    []string `json:"dates"`
	Replaced bool     `json:"replaced"`
}

// Client sends workbooks to the liftplan server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the liftplan server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SendWorkbook POSTs an xlsx workbook to the server's upload endpoint as a
// multipart form. Retries up to 3 times with exponential backoff.
func (c *Client) SendWorkbook(path string) (*UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		f.Close()
		return nil, fmt.Errorf("reading workbook: %w", err)
	}
	f.Close()
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing form: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, c.serverURL+"/api/v1/upload-plan/", bytes.NewReader(body.Bytes()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			var result UploadResult
			if err := json.Unmarshal(respBody, &result); err != nil {
				return nil, fmt.Errorf("decoding response: %w", err)
			}
			return &result, nil
		}

		lastErr = fmt.Errorf("upload failed (status %d): %s", resp.StatusCode, respBody)
		// 4xx responses will not improve on retry.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			break
		}
	}

	return nil, fmt.Errorf("after retries: %w", lastErr)
}
