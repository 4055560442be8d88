package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

// reply mirrors the service's reply envelope.
type reply struct {
	Reply       string `json:"reply"`
	Route       string `json:"route"`
	FactsStored int    `json:"factsStored"`
}

type fact struct {
	Kind    string `json:"kind"`
	Key     string `json:"key"`
	Entity  string `json:"entity"`
	Value   string `json:"value"`
	Concept string `json:"concept"`
}

type factList struct {
	Facts []fact `json:"facts"`
	Count int    `json:"count"`
}

func (o *options) do(method, path string, body interface{}, out interface{}) error {
	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error creating JSON payload: %w", err)
		}
		r = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, strings.TrimRight(o.server, "/")+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

func (o *options) send(text string) (*reply, error) {
	var rep reply
	err := o.do(http.MethodPost, "/api/v1/messages", map[string]interface{}{
		"text":              text,
		"senderId":          o.sender,
		"senderDisplayName": o.senderName,
	}, &rep)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}
