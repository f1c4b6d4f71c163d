package feed

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"

	"github.com/transit-tools/line-uptime/config"
	"github.com/transit-tools/line-uptime/uptime"
)

// Source fetches delay judgments from one or more GTFS-RT alert feeds.
type Source struct {
	baseURL string
	apiKey  string
	feeds   []string
	client  *http.Client
	now     func() time.Time // injectable for deterministic tests
}

// New creates a feed source from the upstream configuration.
func New(cfg config.UpstreamConfig) *Source {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Source{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		feeds:   cfg.Feeds,
		client:  &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

func (s *Source) Name() string { return "feed" }

// FetchSnapshot fetches every configured feed in parallel and merges the
// delay-classified alerts into one snapshot. Individual feed failures are
// logged and contribute nothing; only when every feed fails is an error
// returned, so the caller skips the cycle.
func (s *Source) FetchSnapshot(ctx context.Context) (uptime.Snapshot, error) {
	type result struct {
		fm  *gtfsrtpb.FeedMessage
		err error
	}
	results := make([]result, len(s.feeds))
	var wg sync.WaitGroup
	for i, id := range s.feeds {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			body, err := s.fetch(ctx, id)
			if err != nil {
				results[i] = result{err: err}
				return
			}
			results[i] = result{fm: decodeFeed(body)}
		}(i, id)
	}
	wg.Wait()

	epoch := s.now().Unix()
	judgments := map[string]uptime.Judgment{}
	failed := 0
	for i, r := range results {
		if r.err != nil {
			log.Printf("feed %s: %v", s.feeds[i], r.err)
			failed++
			continue
		}
		for _, e := range r.fm.GetEntity() {
			a := e.GetAlert()
			if a == nil {
				continue
			}
			if !activeNow(a, epoch) {
				continue
			}
			if !isDelayAlert(headerText(a.GetHeaderText())) {
				continue
			}
			for _, ie := range a.GetInformedEntity() {
				if rid := ie.GetRouteId(); rid != "" {
					judgments[rid] = uptime.JudgmentDelayed
				}
			}
		}
	}
	if len(s.feeds) > 0 && failed == len(s.feeds) {
		return uptime.Snapshot{}, fmt.Errorf("all %d feeds failed", failed)
	}
	return uptime.Snapshot{Judgments: judgments, Policy: uptime.PolicyAbsenceRecovers}, nil
}

// fetch retrieves one feed's raw payload, authenticating with the API key
// header when configured.
func (s *Source) fetch(ctx context.Context, feedID string) ([]byte, error) {
	url := s.baseURL + "/" + feedID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
