package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	fgerrors "finguide/internal/errors"
	"finguide/internal/models"
	"finguide/pkg/utils"
)

// Client talks to the yfinance bridge (GET /api/quote, GET /api/search).
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a quote client for the given bridge base URL.
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type quoteResponse struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
	Error     string  `json:"error"`
}

// FetchQuotes retrieves current quotes for the given symbols, one bridge
// call per symbol. Symbols the bridge cannot price are skipped; the call
// fails only when nothing could be fetched, so a single delisted symbol
// never starves the rest of the cache.
func (c *Client) FetchQuotes(ctx context.Context, symbols []string) (map[string]models.Quote, error) {
	out := make(map[string]models.Quote, len(symbols))
	var lastErr error

	for _, symbol := range symbols {
		q, err := c.fetchOne(ctx, symbol)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Debug().Str("symbol", symbol).Err(err).Msg("Quote fetch skipped")
			lastErr = err
			continue
		}
		out[q.Symbol] = q
	}

	if len(out) == 0 && len(symbols) > 0 {
		return nil, fgerrors.NewQuoteError("", "fetch", lastErr)
	}
	return out, nil
}

func (c *Client) fetchOne(ctx context.Context, symbol string) (models.Quote, error) {
	u := fmt.Sprintf("%s/api/quote?symbol=%s", c.baseURL, url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.Quote{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Quote{}, fgerrors.NewQuoteError(symbol, "fetch", err)
	}
	defer resp.Body.Close()

	var body quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.Quote{}, fgerrors.NewQuoteError(symbol, "decode", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := body.Error
		if msg == "" {
			msg = resp.Status
		}
		return models.Quote{}, fgerrors.NewQuoteError(symbol, "fetch", fmt.Errorf("%s", msg))
	}
	if !utils.Finite(body.Price) || body.Price <= 0 {
		return models.Quote{}, fgerrors.NewQuoteError(symbol, "fetch", fgerrors.ErrQuoteUnavailable)
	}

	return models.Quote{
		Symbol:    body.Symbol,
		Price:     body.Price,
		ChangePct: body.ChangePct,
	}, nil
}

// SearchResult is one symbol match from the bridge's search endpoint.
type SearchResult struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// Search looks up symbols matching a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	u := fmt.Sprintf("%s/api/search?query=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fgerrors.NewQuoteError("", "search", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fgerrors.NewQuoteError("", "search", fmt.Errorf("%s", resp.Status))
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fgerrors.NewQuoteError("", "search", err)
	}
	return body.Results, nil
}
