package scrape

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/transit-tools/line-uptime/config"
	"github.com/transit-tools/line-uptime/uptime"
)

const (
	// sectionHeading marks where the status listing begins in the tree.
	sectionHeading = "Service Status"

	// categoryLevel is the heading level that names a status category
	// under the section heading. A shallower heading ends the section.
	categoryLevel = 2

	// delayCategory is the category heading whose lines are delayed.
	delayCategory = "Delays"
)

// lineButton matches the accessible name of a line button and captures the
// line identifier, e.g. "G Line" or "7 Train".
var lineButton = regexp.MustCompile(`^([0-9A-Z]{1,2}) (?:Line|Train)$`)

// Source derives explicit per-line judgments from the rendered status page.
type Source struct {
	fetcher AXFetcher
}

// New creates a scrape source for the configured status page URL.
func New(cfg config.ScrapeConfig) *Source {
	return &Source{fetcher: &browserFetcher{url: cfg.StatusURL}}
}

func (s *Source) Name() string { return "scrape" }

// FetchSnapshot renders the page and classifies every line button found in
// the status section. Any failure fails the whole snapshot; the caller
// skips the cycle and retries next period.
func (s *Source) FetchSnapshot(ctx context.Context) (uptime.Snapshot, error) {
	nodes, err := s.fetcher.FetchTree(ctx)
	if err != nil {
		return uptime.Snapshot{}, fmt.Errorf("status page: %w", err)
	}
	return uptime.Snapshot{
		Judgments: classify(nodes),
		Policy:    uptime.PolicyExplicitJudgment,
	}, nil
}

// classify walks the flat node sequence. After the section heading, each
// category-level heading sets the current category and every line button is
// attributed to it, until a shallower heading closes the section.
func classify(nodes []Node) map[string]uptime.Judgment {
	judgments := map[string]uptime.Judgment{}
	inSection := false
	category := ""
	for _, n := range nodes {
		switch n.Role {
		case "heading":
			if !inSection {
				if strings.EqualFold(strings.TrimSpace(n.Name), sectionHeading) {
					inSection = true
				}
				continue
			}
			if n.Level > 0 && n.Level < categoryLevel {
				inSection = false
				category = ""
				continue
			}
			if n.Level == categoryLevel {
				category = strings.TrimSpace(n.Name)
			}
		case "button":
			if !inSection || category == "" {
				continue
			}
			m := lineButton.FindStringSubmatch(strings.TrimSpace(n.Name))
			if m == nil {
				continue
			}
			judgment := uptime.JudgmentUndelayed
			if strings.EqualFold(category, delayCategory) {
				judgment = uptime.JudgmentDelayed
			}
			judgments[m[1]] = judgment
		}
	}
	return judgments
}
