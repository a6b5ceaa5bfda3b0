package bgg

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Thing is the detail payload for one game.
type Thing struct {
	ID            string
	Name          string
	Thumbnail     string
	Image         string
	YearPublished int
	MinPlayers    int
	MaxPlayers    int
	PlayingTime   int
	MinAge        int
	Description   string
	AverageRating float64
}

// Fetcher defines the detail operations the resolution pipeline uses.
type Fetcher interface {
	GetThing(ctx context.Context, id string) (*Thing, error)
}

// Client accesses the BoardGameGeek XML API2.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a BGG client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("bgg base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type xmlItems struct {
	Items []xmlItem `xml:"item"`
}

type xmlItem struct {
	ID            string     `xml:"id,attr"`
	Thumbnail     string     `xml:"thumbnail"`
	Image         string     `xml:"image"`
	Description   string     `xml:"description"`
	Names         []xmlName  `xml:"name"`
	YearPublished xmlIntAttr `xml:"yearpublished"`
	MinPlayers    xmlIntAttr `xml:"minplayers"`
	MaxPlayers    xmlIntAttr `xml:"maxplayers"`
	PlayingTime   xmlIntAttr `xml:"playingtime"`
	MinAge        xmlIntAttr `xml:"minage"`
	Statistics    *xmlStats  `xml:"statistics"`
}

type xmlName struct {
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

type xmlIntAttr struct {
	Value int `xml:"value,attr"`
}

type xmlStats struct {
	Ratings struct {
		Average struct {
			Value float64 `xml:"value,attr"`
		} `xml:"average"`
	} `xml:"ratings"`
}

// GetThing fetches details for one game id.
func (c *Client) GetThing(ctx context.Context, id string) (*Thing, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("thing id required")
	}

	query := url.Values{}
	query.Set("id", id)
	query.Set("stats", "1")
	endpoint := fmt.Sprintf("%s/thing?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build bgg request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bgg request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("bgg returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed xmlItems
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode bgg response: %w", err)
	}
	if len(parsed.Items) == 0 {
		return nil, fmt.Errorf("bgg thing %s not found", id)
	}

	item := parsed.Items[0]
	thing := &Thing{
		ID:            item.ID,
		Name:          primaryName(item.Names),
		Thumbnail:     strings.TrimSpace(item.Thumbnail),
		Image:         strings.TrimSpace(item.Image),
		YearPublished: item.YearPublished.Value,
		MinPlayers:    item.MinPlayers.Value,
		MaxPlayers:    item.MaxPlayers.Value,
		PlayingTime:   item.PlayingTime.Value,
		MinAge:        item.MinAge.Value,
		Description:   strings.TrimSpace(item.Description),
	}
	if item.Statistics != nil {
		thing.AverageRating = item.Statistics.Ratings.Average.Value
	}
	return thing, nil
}

func primaryName(names []xmlName) string {
	for _, n := range names {
		if n.Type == "primary" {
			return strings.TrimSpace(n.Value)
		}
	}
	if len(names) > 0 {
		return strings.TrimSpace(names[0].Value)
	}
	return ""
}
