package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"campusfind/metrics"
	"campusfind/models"
	"campusfind/utils"
)

// MatchService asks an external image-similarity endpoint whether a newly
// uploaded photo looks like an already-posted item. It is advisory only:
// every failure mode collapses to "no matches" and submission is never
// blocked by it.
type MatchService struct {
	endpoint string
	client   *http.Client
}

type matchCandidate struct {
	ID       string `json:"_id"`
	ImageURL string `json:"imageUrl"`
}

type matchRequest struct {
	Image string           `json:"image"`
	Items []matchCandidate `json:"items"`
}

type matchResponse struct {
	MatchID    *string `json:"matchId"`
	Confidence float64 `json:"confidence"`
}

func NewMatchService(endpoint string, timeout time.Duration) *MatchService {
	return &MatchService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// FindMatches returns ids of existing items the service considers similar to
// image. candidates should be the current items that carry a photo; items
// without one are skipped. The returned slice is empty on any failure.
func (s *MatchService) FindMatches(ctx context.Context, image []byte, contentType string, candidates []models.Item) []string {
	if s.endpoint == "" || len(image) == 0 {
		return nil
	}

	reqBody := matchRequest{
		Image: fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(image)),
	}
	for _, item := range candidates {
		if item.ImageRef == "" {
			continue
		}
		reqBody.Items = append(reqBody.Items, matchCandidate{
			ID:       item.ID.Hex(),
			ImageURL: item.ImageRef,
		})
	}
	if len(reqBody.Items) == 0 {
		return nil
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		utils.LogWarning(fmt.Sprintf("match service: failed to encode request: %v", err))
		metrics.MatchRequests.WithLabelValues("error").Inc()
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		metrics.MatchRequests.WithLabelValues("error").Inc()
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		utils.LogWarning(fmt.Sprintf("match service unreachable: %v", err))
		metrics.MatchRequests.WithLabelValues("error").Inc()
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.LogWarning(fmt.Sprintf("match service returned status %d", resp.StatusCode))
		metrics.MatchRequests.WithLabelValues("error").Inc()
		return nil
	}

	var result matchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		utils.LogWarning(fmt.Sprintf("match service: malformed response: %v", err))
		metrics.MatchRequests.WithLabelValues("error").Inc()
		return nil
	}

	if result.MatchID == nil || *result.MatchID == "" {
		metrics.MatchRequests.WithLabelValues("no_match").Inc()
		return nil
	}

	metrics.MatchRequests.WithLabelValues("match").Inc()
	return []string{*result.MatchID}
}
