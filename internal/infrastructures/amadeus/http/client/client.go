package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	derr "github.com/gurgen2727/travel-api/internal/domain/errors"
	"github.com/gurgen2727/travel-api/internal/domain/models"
	"github.com/gurgen2727/travel-api/internal/domain/ports"
	"github.com/gurgen2727/travel-api/internal/infrastructures/amadeus/dto"
	"github.com/gurgen2727/travel-api/internal/infrastructures/amadeus/mappers"
	"golang.org/x/time/rate"
)

const (
	tokenPath  = "/v1/security/oauth2/token"
	offersPath = "/v2/shopping/flight-offers"

	// One rate-limited query is retried this many times in total
	// before it is abandoned.
	rateLimitAttempts = 3
)

type Client struct {
	baseURL    string
	key        string
	secret     string
	currency   string
	max        int
	retryDelay time.Duration
	limiter    *rate.Limiter
	httpClient *http.Client

	token string
}

func NewClient(baseURL, key, secret, currency string, max int, timeout, retryDelay time.Duration, limiter *rate.Limiter) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://test.api.amadeus.com"
	}
	if strings.TrimSpace(currency) == "" {
		currency = "GBP"
	}
	if max <= 0 {
		max = 5
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if retryDelay <= 0 {
		retryDelay = 5 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		key:        strings.TrimSpace(key),
		secret:     strings.TrimSpace(secret),
		currency:   strings.ToUpper(strings.TrimSpace(currency)),
		max:        max,
		retryDelay: retryDelay,
		limiter:    limiter,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Authenticate performs the client-credentials exchange and stores the
// bearer token for the rest of the process.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.key == "" || c.secret == "" {
		return fmt.Errorf("amadeus credentials are empty: set AMADEUS_API_KEY and AMADEUS_API_SECRET")
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.key)
	form.Set("client_secret", c.secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("amadeus token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: token endpoint status %s: %s", derr.ErrProvider, resp.Status, readSnippet(resp.Body))
	}

	var payload dto.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("%w: token endpoint returned empty access_token", derr.ErrProvider)
	}
	c.token = payload.AccessToken
	return nil
}

// Search issues one flight-offers query. HTTP 429 is retried with a
// fixed delay up to rateLimitAttempts total attempts, then the query
// is abandoned with ErrRateLimited.
func (c *Client) Search(ctx context.Context, q ports.OfferQuery) ([]models.Offer, error) {
	reqURL := c.buildURL(q)

	var resp *http.Response
	for attempt := 0; attempt < rateLimitAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, c.retryDelay); err != nil {
				return nil, err
			}
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build offers request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err = c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("amadeus offers request: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		resp = nil
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: still throttled after %d attempts", derr.ErrRateLimited, rateLimitAttempts)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: offers endpoint status %s: %s", derr.ErrProvider, resp.Status, readSnippet(resp.Body))
	}

	var payload dto.FlightOffersResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode offers response: %v", derr.ErrProvider, err)
	}
	return mappers.ToOffers(payload.Data), nil
}

func (c *Client) buildURL(q ports.OfferQuery) string {
	v := url.Values{}
	v.Set("originLocationCode", strings.ToUpper(strings.TrimSpace(q.Origin)))
	v.Set("destinationLocationCode", strings.ToUpper(strings.TrimSpace(q.Destination)))
	v.Set("departureDate", q.Depart.Format("2006-01-02"))
	if q.RoundTrip() {
		v.Set("returnDate", q.Return.Format("2006-01-02"))
	}
	v.Set("adults", "1")
	v.Set("max", strconv.Itoa(c.max))
	v.Set("currencyCode", c.currency)
	v.Set("nonStop", strconv.FormatBool(q.Nonstop))
	return c.baseURL + offersPath + "?" + v.Encode()
}

func readSnippet(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, 2048))
	return strings.TrimSpace(string(body))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
