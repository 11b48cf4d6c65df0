// Package classifier talks to the external facial-expression model.
package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"moodmatch/backend/internal/config"
	"moodmatch/backend/internal/emotion"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrUnavailable means no inference endpoint is configured.
	ErrUnavailable = errors.New("classifier not configured")
	ErrEmptyImage  = errors.New("empty image payload")
	ErrNoLabel     = errors.New("classifier returned no known label")
)

// Prediction is the argmax of a classification.
type Prediction struct {
	Label       emotion.Label
	Probability float64
	// Scores maps every recognised label to its probability.
	Scores map[string]float64
}

// Classifier turns image bytes into a Prediction.
type Classifier interface {
	Classify(ctx context.Context, image []byte) (*Prediction, error)
}

// DecodeImage accepts a data URL ("data:image/jpeg;base64,....") or bare base64.
func DecodeImage(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if i := strings.Index(payload, ","); strings.HasPrefix(payload, "data:") && i >= 0 {
		payload = payload[i+1:]
	}
	if payload == "" {
		return nil, ErrEmptyImage
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
	}
	if len(raw) == 0 {
		return nil, ErrEmptyImage
	}
	return raw, nil
}

// HTTPClassifier posts images to an inference endpoint answering with
// [{"label": "...", "score": 0.9}, ...].
type HTTPClassifier struct {
	url    string
	token  string
	client *http.Client
}

// New returns nil when cfg has no URL; Classify on a nil receiver yields ErrUnavailable.
func New(cfg config.ClassifierConfig) *HTTPClassifier {
	if !cfg.Enabled() {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClassifier{
		url:    cfg.URL,
		token:  cfg.Token,
		client: &http.Client{Timeout: timeout},
	}
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *HTTPClassifier) Classify(ctx context.Context, image []byte) (*Prediction, error) {
	if c == nil {
		return nil, ErrUnavailable
	}
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("classifier response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var scores []labelScore
	if err := json.Unmarshal(body, &scores); err != nil {
		// Some endpoints wrap a batch of one.
		var batch [][]labelScore
		if errBatch := json.Unmarshal(body, &batch); errBatch != nil || len(batch) == 0 {
			return nil, fmt.Errorf("classifier response: %w", err)
		}
		scores = batch[0]
	}
	return argmax(scores)
}

func argmax(scores []labelScore) (*Prediction, error) {
	pred := &Prediction{Scores: make(map[string]float64, len(scores))}
	best := -1.0
	for _, s := range scores {
		label, err := emotion.Parse(s.Label)
		if err != nil {
			continue
		}
		pred.Scores[string(label)] += s.Score
		if s.Score > best {
			best = s.Score
			pred.Label = label
			pred.Probability = s.Score
		}
	}
	if pred.Label == "" {
		return nil, ErrNoLabel
	}
	return pred, nil
}
