package eventservices

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
)

// FetchQuoteOption asks the pricing provider for premiums and greeks of one option.
func FetchQuoteOption(ctx context.Context, url, bearerToken string, quoteReq eventmodels.QuoteOptionRequest) (*eventmodels.QuoteOptionResponse, error) {
	client := http.Client{
		Timeout: 10 * time.Second,
	}

	body, err := json.Marshal(quoteReq)
	if err != nil {
		return nil, fmt.Errorf("FetchQuoteOption: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("FetchQuoteOption: failed to create request: %w", err)
	}

	req.Header.Add("Accept", "application/json")
	req.Header.Add("Content-Type", "application/json")
	if bearerToken != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", bearerToken))
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("FetchQuoteOption: failed to fetch quote: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FetchQuoteOption: failed to fetch quote, http code %v", res.Status)
	}

	var dto eventmodels.QuoteOptionResponse
	if err := json.NewDecoder(res.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("FetchQuoteOption: failed to decode json: %w", err)
	}

	return &dto, nil
}
