package deliver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"jobscout-engine/internal/domain"
)

// webhookTopN caps how many jobs go into one webhook message.
const webhookTopN = 5

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Timestamp string       `json:"timestamp"`
	Footer    struct {
		Text string `json:"text"`
	} `json:"footer"`
	Fields []embedField `json:"fields"`
}

type webhookPayload struct {
	Username string  `json:"username"`
	Embeds   []embed `json:"embeds"`
}

// SendWebhook posts the top matches as a Discord-style embed. Callers
// skip it entirely in dry-run mode.
func SendWebhook(ctx context.Context, url string, jobs []domain.ScoredJob) error {
	if url == "" || len(jobs) == 0 {
		return nil
	}

	top := jobs
	if len(top) > webhookTopN {
		top = top[:webhookTopN]
	}

	e := embed{
		Title:     "New job matches",
		Color:     0x00d4aa,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	e.Footer.Text = fmt.Sprintf("%d total matches", len(jobs))

	for i, j := range top {
		e.Fields = append(e.Fields, embedField{
			Name:  fmt.Sprintf("%d. %s", i+1, j.Title),
			Value: fmt.Sprintf("%s\n%s\nScore: %d\n[View](%s)", j.Company, j.Location, j.Score, j.URL),
		})
	}

	body, err := json.Marshal(webhookPayload{Username: "JobScout", Embeds: []embed{e}})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	hc := &http.Client{Timeout: 15 * time.Second}
	res, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return fmt.Errorf("webhook status %d", res.StatusCode)
	}
	return nil
}
