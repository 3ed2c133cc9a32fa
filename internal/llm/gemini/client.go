package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rollwright/voterroll/internal/entity"
	"github.com/rollwright/voterroll/internal/llm"
)

// ErrAPIKeyMissing means no credential was supplied with the request. It
// propagates unchanged so the caller can trigger re-authorization.
var ErrAPIKeyMissing = errors.New("gemini api key not found")

// ExtractVoters implements llm.VoterExtractor against the Gemini
// generateContent endpoint. The reply is validated against the voters
// schema (with a lenient sanitize pass) before normalization.
func (c *Client) ExtractVoters(ctx context.Context, req llm.ExtractRequest) ([]entity.VoterRecord, llm.Meta, error) {
	rid := uuid.New().String()
	start := time.Now()

	if strings.TrimSpace(req.APIKey) == "" {
		return nil, nil, ErrAPIKeyMissing
	}

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(req.Text),
		"has_image", req.ImageB64 != "",
	)

	parts := []map[string]any{{"text": buildPrompt()}}
	if req.ImageB64 != "" {
		parts = append(parts, map[string]any{
			"inline_data": map[string]any{
				"mime_type": req.MIMEType,
				"data":      req.ImageB64,
			},
		})
	} else {
		parts = append(parts, map[string]any{"text": req.Text})
	}

	body := map[string]any{
		"contents": []map[string]any{{"parts": parts}},
		"generationConfig": map[string]any{
			"temperature":        c.cfg.Temperature,
			"response_mime_type": "application/json",
		},
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)

	raw, status, httpErr := c.post(ctx, endpoint, req.APIKey, body)
	if httpErr != nil {
		err := llm.NormalizeUpstreamError(status, httpErr)
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, nil, err
	}

	var reply struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		c.log.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, nil, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(reply.Candidates) == 0 || len(reply.Candidates[0].Content.Parts) == 0 {
		return nil, nil, fmt.Errorf("no candidates in gemini response")
	}

	content := []byte(stripFences(reply.Candidates[0].Content.Parts[0].Text))

	schema := llm.BuildVoterJSONSchema()
	if err := llm.ValidateJSONAgainstSchema(schema, content); err != nil {
		cleaned, touched, sErr := llm.SanitizeResponse(content)
		if sErr != nil {
			c.log.Error("llm.extract.sanitize_failed",
				"req_id", rid, "error", sErr,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return nil, nil, fmt.Errorf("sanitize failed: %w", sErr)
		}
		if vErr := llm.ValidateJSONAgainstSchema(schema, cleaned); vErr != nil {
			c.log.Error("llm.extract.schema_validation_failed",
				"req_id", rid, "error", vErr, "content", string(content),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return nil, nil, fmt.Errorf("schema validation failed: %w", vErr)
		}
		c.log.Warn("llm.extract.lenient_sanitize_applied",
			"req_id", rid, "touched", touched,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		content = cleaned
	}

	var doc map[string]any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, nil, fmt.Errorf("unmarshal extraction document: %w", err)
	}

	records, meta := llm.NormalizeResponse(doc)
	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"voters", len(records),
		"has_meta", meta != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return records, meta, nil
}

func (c *Client) post(ctx context.Context, url, apiKey string, body map[string]any) ([]byte, int, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("gemini http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.log.Warn("gemini response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("gemini status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, resp.StatusCode, nil
}

// stripFences removes a surrounding ```json ... ``` block if the model
// wrapped its reply in markdown.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
