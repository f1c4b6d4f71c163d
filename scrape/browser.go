package scrape

import (
	"context"
	"encoding/json"

	"github.com/chromedp/cdproto/accessibility"
	"github.com/chromedp/chromedp"
)

// Node is one entry of the flattened accessibility tree, reduced to the
// fields the status walk needs. Level is the heading level, 0 elsewhere.
type Node struct {
	Role  string
	Name  string
	Level int
}

// AXFetcher retrieves the accessibility tree of the status page as a flat
// ordered node sequence. Implemented by the headless browser fetcher and by
// test fakes.
type AXFetcher interface {
	FetchTree(ctx context.Context) ([]Node, error)
}

// browserFetcher renders the page in headless Chrome via the DevTools
// protocol and pulls the full AX tree.
type browserFetcher struct {
	url string
}

func (f *browserFetcher) FetchTree(ctx context.Context) ([]Node, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()
	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var axNodes []*accessibility.Node
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(f.url),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if err := accessibility.Enable().Do(ctx); err != nil {
				return err
			}
			var err error
			axNodes, err = accessibility.GetFullAXTree().Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return flatten(axNodes), nil
}

func flatten(axNodes []*accessibility.Node) []Node {
	nodes := make([]Node, 0, len(axNodes))
	for _, n := range axNodes {
		if n == nil || n.Ignored {
			continue
		}
		node := Node{
			Role: axString(n.Role),
			Name: axString(n.Name),
		}
		for _, p := range n.Properties {
			if p.Name == accessibility.PropertyNameLevel {
				node.Level = int(axFloat(p.Value))
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// axString decodes an AXValue holding a string. AXValue payloads are raw
// JSON, so a non-string or missing value decodes to "".
func axString(v *accessibility.Value) string {
	if v == nil || len(v.Value) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v.Value, &s); err != nil {
		return ""
	}
	return s
}

func axFloat(v *accessibility.Value) float64 {
	if v == nil || len(v.Value) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(v.Value, &f); err != nil {
		return 0
	}
	return f
}
