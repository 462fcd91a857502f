package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/Rohit-roe/coursegen/types"
)

// Web searches for articles via DuckDuckGo's HTML endpoint. On any
// failure it returns a single constructed search link, so the result
// list is never empty.
func (s *Service) Web(ctx context.Context, query string, maxResults int) []types.Resource {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	if cached, ok := s.fromCache(ctx, "web", query); ok {
		return cached
	}

	resources, err := s.searchDuckDuckGo(ctx, query, maxResults)
	if err != nil || len(resources) == 0 {
		s.logger.Warn("web search failed, returning search link",
			zap.String("query", query),
			zap.Error(err),
		)
		return []types.Resource{webFallback(query)}
	}

	s.logger.Info("web search succeeded",
		zap.String("query", query),
		zap.Int("results", len(resources)),
	)
	s.toCache(ctx, "web", query, resources)
	return resources
}

func (s *Service) searchDuckDuckGo(ctx context.Context, query string, maxResults int) ([]types.Resource, error) {
	form := url.Values{"q": {query + " tutorial guide"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.DuckDuckGoURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; coursegen/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	results := parseResults(doc)
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// parseResults walks the parsed document collecting result anchors
// (class result__a) and their snippets (class result__snippet), paired
// by order of appearance.
func parseResults(doc *html.Node) []types.Resource {
	var resources []types.Resource
	var snippets []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			switch {
			case hasClass(n, "result__a"):
				href := resolveRedirect(attrValue(n, "href"))
				title := strings.TrimSpace(textContent(n))
				if href != "" && title != "" {
					resources = append(resources, types.Resource{
						Title:  title,
						URL:    href,
						Source: "web",
					})
				}
			case hasClass(n, "result__snippet"):
				snippets = append(snippets, strings.TrimSpace(textContent(n)))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for i := range resources {
		if i < len(snippets) {
			resources[i].Description = truncateDescription(snippets[i])
		}
	}
	return resources
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links to the
// destination URL.
func resolveRedirect(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.Contains(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return href
	}
	return ""
}

func webFallback(query string) types.Resource {
	return types.Resource{
		Title:       fmt.Sprintf("Search: %s", query),
		URL:         fmt.Sprintf("https://duckduckgo.com/?q=%s", strings.ReplaceAll(query, " ", "+")),
		Source:      "web",
		Description: fmt.Sprintf("Search the web for: %s", query),
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
