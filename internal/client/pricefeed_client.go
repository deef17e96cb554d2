package client

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"bridge_quoter/internal/domain/entity"
	wire "bridge_quoter/internal/entity"
	"bridge_quoter/internal/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PriceFeedClient talks to the fiat price feed. It implements
// port.PriceOracle.
type PriceFeedClient interface {
	FetchPrice(ctx context.Context, token entity.Token) (decimal.Decimal, error)
	PrefetchPrices(ctx context.Context, tokens []entity.Token) error
}

// priceFeedClientImpl is the implementation of PriceFeedClient.
type priceFeedClientImpl struct {
	client     *fasthttp.Client
	baseURL    string
	apiKey     string
	vsCurrency string
	timeout    time.Duration
	logger     *zap.Logger
	limiter    *rate.Limiter
	prices     *cache.Cache
	prefetchN  int
}

// NewPriceFeedClient creates a new instance of priceFeedClientImpl.
func NewPriceFeedClient(
	baseURL string,
	apiKey string,
	vsCurrency string,
	timeout time.Duration,
	cacheTTL time.Duration,
	requestsPerSecond float64,
	maxConcurrentPrefetch int,
	logger *zap.Logger,
) PriceFeedClient {
	return &priceFeedClientImpl{
		client:     &fasthttp.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		vsCurrency: vsCurrency,
		timeout:    timeout,
		logger:     logger.Named("PriceFeedClient"),
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		prices:     cache.New(cacheTTL, 10*time.Minute),
		prefetchN:  maxConcurrentPrefetch,
	}
}

// FetchPrice implements the PriceFeedClient interface. It returns
// entity.ErrPriceUnavailable when the feed has no data for the token;
// transport and parse failures are wrapped errors the caller treats the same
// way.
func (c *priceFeedClientImpl) FetchPrice(ctx context.Context, token entity.Token) (decimal.Decimal, error) {
	cacheKey := priceCacheKey(token)
	if cached, found := c.prices.Get(cacheKey); found {
		if price, ok := cached.(decimal.Decimal); ok {
			metrics.OracleRequestsTotal.WithLabelValues(metrics.OutcomeCacheHit).Inc()
			return price, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Decimal{}, fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	requestURL := fmt.Sprintf("%s/v1/price/%s/%s?vs_currency=%s",
		c.baseURL, string(token.Family()), token.PriceDenom(), c.vsCurrency)

	c.logger.Debug("Requesting unit price from price feed",
		zap.String("url", requestURL),
		zap.String("symbol", token.TokenSymbol()))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute price feed request", zap.String("url", requestURL), zap.Error(err))
			return decimal.Decimal{}, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute price feed request (with default timeout)", zap.String("url", requestURL), zap.Error(err))
			return decimal.Decimal{}, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	rawBody := resp.Body()

	if resp.StatusCode() == fasthttp.StatusNotFound {
		metrics.OracleRequestsTotal.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		c.logger.Debug("Price feed has no data for denom",
			zap.String("denom", token.PriceDenom()),
			zap.String("family", string(token.Family())))
		return decimal.Decimal{}, entity.ErrPriceUnavailable
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		metrics.OracleRequestsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		c.logger.Error("Price feed request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return decimal.Decimal{}, fmt.Errorf("price feed request to %s failed with status %d: %s", requestURL, resp.StatusCode(), string(rawBody))
	}

	var feedResp wire.PriceFeedResponse
	if err := json.Unmarshal(rawBody, &feedResp); err != nil {
		c.logger.Error("Failed to unmarshal price feed response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return decimal.Decimal{}, fmt.Errorf("failed to unmarshal price feed response from %s: %w", requestURL, err)
	}

	if feedResp.Price == "" {
		metrics.OracleRequestsTotal.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		return decimal.Decimal{}, entity.ErrPriceUnavailable
	}

	price, err := decimal.NewFromString(feedResp.Price)
	if err != nil {
		c.logger.Warn("Price feed returned a malformed price",
			zap.String("denom", token.PriceDenom()),
			zap.String("price", feedResp.Price),
			zap.Error(err))
		return decimal.Decimal{}, fmt.Errorf("malformed price %q from feed: %w", feedResp.Price, err)
	}
	if !price.IsPositive() {
		metrics.OracleRequestsTotal.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		return decimal.Decimal{}, entity.ErrPriceUnavailable
	}

	metrics.OracleRequestsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	c.prices.Set(cacheKey, price, cache.DefaultExpiration)
	c.logger.Debug("Cached unit price",
		zap.String("denom", token.PriceDenom()),
		zap.String("price", price.String()))
	return price, nil
}

// PrefetchPrices warms the price cache for the given token catalog with
// bounded concurrency. Unavailable tokens are skipped, not errors.
func (c *priceFeedClientImpl) PrefetchPrices(ctx context.Context, tokens []entity.Token) error {
	eg, childCtx := errgroup.WithContext(ctx)
	limit := c.prefetchN
	if limit <= 0 {
		limit = 5
	}
	eg.SetLimit(limit)

	var prefetched, missing atomic.Int64
	for _, token := range tokens {
		eg.Go(func() error {
			if _, err := c.FetchPrice(childCtx, token); err != nil {
				missing.Add(1)
				c.logger.Debug("Prefetch skipped token without price",
					zap.String("symbol", token.TokenSymbol()),
					zap.Error(err))
				return nil // report as handled to the errgroup
			}
			prefetched.Add(1)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("price prefetch aborted: %w", err)
	}
	c.logger.Info("Finished prefetching token prices",
		zap.Int64("prefetched", prefetched.Load()),
		zap.Int64("missing", missing.Load()))
	return nil
}

func priceCacheKey(token entity.Token) string {
	return string(token.Family()) + "_" + strings.ToLower(token.PriceDenom())
}
