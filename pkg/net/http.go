package net

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GetJSON retrieves the HTTP content and decodes it into the passed target.
// Extra headers (e.g. API keys) are applied to the request when provided.
func GetJSON[T any](url string, headers map[string]string, target *T) error {
	resp, err := getResp(url, headers)
	if err != nil {
		return fmt.Errorf("error creating HTTP Get request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("error decoding content: %w", err)
	}
	return nil
}

// GetBody retrieves the HTTP content as a reader. The caller owns Close.
func GetBody(url string) (io.ReadCloser, error) {
	resp, err := getResp(url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP Get request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}
	return resp.Body, nil
}
