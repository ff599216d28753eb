package stoloto

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// MainSection fetches the CMS main categories (lottery cards).
type MainSection struct {
	client  *Client
	baseURL string
	ttl     time.Duration
}

func NewMainSection(client *Client, baseURL string, ttl time.Duration) *MainSection {
	return &MainSection{client: client, baseURL: baseURL, ttl: ttl}
}

func (s *MainSection) CacheKey() string        { return "catalog:main:categories" }
func (s *MainSection) CacheTTL() time.Duration { return s.ttl }

func (s *MainSection) FetchFresh(ctx context.Context) (*MainCategoriesResponse, error) {
	url := s.baseURL + "/cms/api/main-categories?platform=MS&user-segment=ALL"
	body, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	var resp MainCategoriesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode main categories: %w", err)
	}
	return &resp, nil
}

// TabsSection fetches the active draws / promotions strip.
type TabsSection struct {
	client  *Client
	baseURL string
	ttl     time.Duration
}

func NewTabsSection(client *Client, baseURL string, ttl time.Duration) *TabsSection {
	return &TabsSection{client: client, baseURL: baseURL, ttl: ttl}
}

func (s *TabsSection) CacheKey() string        { return "catalog:tabs:active" }
func (s *TabsSection) CacheTTL() time.Duration { return s.ttl }

func (s *TabsSection) FetchFresh(ctx context.Context) (*TabsResponse, error) {
	url := s.baseURL + "/cms/api/tabs?platform=OS&user-segment=ALL"
	body, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	var resp TabsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode tabs: %w", err)
	}
	return &resp, nil
}

// PacketsSection fetches the ticket packet list. Names and descriptions are
// localized maps with embedded markup upstream; they are flattened to clean
// Russian text here.
type PacketsSection struct {
	client  *Client
	baseURL string
	ttl     time.Duration
}

func NewPacketsSection(client *Client, baseURL string, ttl time.Duration) *PacketsSection {
	return &PacketsSection{client: client, baseURL: baseURL, ttl: ttl}
}

func (s *PacketsSection) CacheKey() string        { return "catalog:list:packets" }
func (s *PacketsSection) CacheTTL() time.Duration { return s.ttl }

type rawLocalized struct {
	Ru string `json:"ru"`
}

type rawPacket struct {
	Price       int           `json:"price"`
	Name        rawLocalized  `json:"name"`
	Description *rawLocalized `json:"description"`
	Bets        []Bet         `json:"bets"`
	ForMain     bool          `json:"forMain"`
}

type rawPacketsResponse struct {
	Packets []rawPacket `json:"packets"`
}

func (s *PacketsSection) FetchFresh(ctx context.Context) (*PacketsResponse, error) {
	url := s.baseURL + "/p/api/mobile/api/v35/packets/list"
	body, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	var raw rawPacketsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode packets: %w", err)
	}

	resp := &PacketsResponse{Packets: make([]Packet, 0, len(raw.Packets))}
	for _, p := range raw.Packets {
		packet := Packet{
			Price:   p.Price,
			Name:    CleanHTML(p.Name.Ru),
			Bets:    p.Bets,
			ForMain: p.ForMain,
		}
		if p.Description != nil {
			packet.Description = CleanHTML(p.Description.Ru)
		}
		resp.Packets = append(resp.Packets, packet)
	}
	return resp, nil
}

// DetailsSection fetches the archived draws of a single lottery. The cache
// key is parameterized by lottery code and count, so distinct argument
// tuples occupy distinct cache slots.
type DetailsSection struct {
	client      *Client
	baseURL     string
	ttl         time.Duration
	lotteryCode string
	count       int
}

func NewDetailsSection(client *Client, baseURL string, ttl time.Duration, lotteryCode string, count int) *DetailsSection {
	if lotteryCode == "" {
		lotteryCode = "ruslotto"
	}
	if count <= 0 {
		count = 5
	}
	return &DetailsSection{
		client:      client,
		baseURL:     baseURL,
		ttl:         ttl,
		lotteryCode: lotteryCode,
		count:       count,
	}
}

func (s *DetailsSection) CacheKey() string {
	return fmt.Sprintf("catalog:details:draws:%s:%d", s.lotteryCode, s.count)
}

func (s *DetailsSection) CacheTTL() time.Duration { return s.ttl }

func (s *DetailsSection) FetchFresh(ctx context.Context) (*DrawDetailsResponse, error) {
	url := fmt.Sprintf("%s/p/api/mobile/api/v35/service/draws/%s/details?count=%d", s.baseURL, s.lotteryCode, s.count)
	body, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	var resp DrawDetailsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode draw details: %w", err)
	}
	return &resp, nil
}
