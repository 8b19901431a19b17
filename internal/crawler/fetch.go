package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/muhlenberg/searchengine/internal/apperror"
)

// page is the result of fetching and parsing one URL: its title, the
// concatenated visible text of the body, and every resolved, fragment-
// stripped anchor href found in the document.
type page struct {
	title string
	text  string
	links []string
}

// fetch performs a single GET with ctx's deadline, parses the response as
// HTML, and extracts the title, visible text, and anchor links. Any
// failure (timeout, I/O, status 400 or above, unparseable body) is reported as
// apperror.ErrFetchFailed so the caller can drop the URL silently.
func (c *Crawler) fetch(ctx context.Context, rawURL string) (page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return page{}, fmt.Errorf("%w: %v", apperror.ErrFetchFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return page{}, fmt.Errorf("%w: %v", apperror.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return page{}, fmt.Errorf("%w: status %d", apperror.ErrFetchFailed, resp.StatusCode)
	}

	root, err := html.Parse(resp.Body)
	if err != nil {
		return page{}, fmt.Errorf("%w: %v", apperror.ErrFetchFailed, err)
	}

	base, err := url.Parse(rawURL)
	if err != nil {
		return page{}, fmt.Errorf("%w: %v", apperror.ErrFetchFailed, err)
	}

	var p page
	var textBuilder strings.Builder
	var inTitle bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				inTitle = true
				defer func() { inTitle = false }()
			case "script", "style":
				return
			case "a":
				for _, attr := range n.Attr {
					if attr.Key == "href" {
						if resolved, ok := resolveLink(base, attr.Val); ok {
							p.links = append(p.links, resolved)
						}
					}
				}
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if inTitle {
					p.title = text
				} else {
					textBuilder.WriteString(text)
					textBuilder.WriteString(" ")
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	p.text = textBuilder.String()

	return p, nil
}

// resolveLink resolves href against base, strips any fragment, and
// rejects non-http(s) schemes (mailto:, javascript:, etc.).
func resolveLink(base *url.URL, href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	resolved.Fragment = ""
	return resolved.String(), true
}
