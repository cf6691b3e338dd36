package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const defaultFeedURL = "https://news.google.com/rss/search"

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
}

// Client pulls headline strings from an RSS search feed. Descriptions
// arrive as HTML fragments and are flattened to text before scoring.
type Client struct {
	http    *resty.Client
	feedURL string
	log     zerolog.Logger
}

func NewClient(feedURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if feedURL == "" {
		feedURL = defaultFeedURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:    resty.New().SetTimeout(timeout).SetRetryCount(2),
		feedURL: feedURL,
		log:     log.With().Str("component", "news").Logger(),
	}
}

// Headlines returns up to limit headline strings for the query. An
// empty feed yields an empty slice, not an error.
func (c *Client) Headlines(ctx context.Context, query string, limit int) ([]string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":  query + " stock",
			"hl": "en-US",
			"gl": "US",
		}).
		Get(c.feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch news feed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("news feed status %d", resp.StatusCode())
	}

	var feed rssFeed
	if err := xml.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, fmt.Errorf("parse news feed: %w", err)
	}

	headlines := make([]string, 0, limit)
	for _, item := range feed.Channel.Items {
		if len(headlines) >= limit {
			break
		}
		title := stripHTML(item.Title)
		if title == "" {
			title = stripHTML(item.Description)
		}
		if title != "" {
			headlines = append(headlines, title)
		}
	}

	c.log.Debug().Str("query", query).Int("headlines", len(headlines)).Msg("fetched headlines")
	return headlines, nil
}

// stripHTML flattens an HTML fragment to its text content.
func stripHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}
