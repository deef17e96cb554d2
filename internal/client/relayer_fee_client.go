package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"bridge_quoter/internal/domain/entity"
	wire "bridge_quoter/internal/entity"
	"bridge_quoter/internal/pkg/metrics"
)

// RelayerFeeClient fetches bridge fee options from the relayer API. It
// implements port.FeeQuoteProvider.
type RelayerFeeClient interface {
	GetFees(ctx context.Context, fromChain, toChain string, token entity.Token, unitPrice decimal.Decimal) (entity.FeeSet, error)
}

// relayerFeeClientImpl is the implementation of RelayerFeeClient.
type relayerFeeClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewRelayerFeeClient creates a new instance of relayerFeeClientImpl.
func NewRelayerFeeClient(baseURL string, timeout time.Duration, logger *zap.Logger) RelayerFeeClient {
	return &relayerFeeClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("RelayerFeeClient"),
	}
}

// GetFees implements the RelayerFeeClient interface. Provider error bodies
// are propagated inside the returned error so wallet/gas-price precondition
// markers survive for classification.
func (c *relayerFeeClientImpl) GetFees(ctx context.Context, fromChain, toChain string, token entity.Token, unitPrice decimal.Decimal) (entity.FeeSet, error) {
	start := time.Now()
	requestURL := c.baseURL + "/v1/fees"

	body, err := json.Marshal(wire.RelayerFeeRequest{
		FromChain:   fromChain,
		ToChain:     toChain,
		TokenSymbol: token.TokenSymbol(),
		ChainFamily: string(token.Family()),
		Denom:       token.PriceDenom(),
		UnitPrice:   unitPrice.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fee request: %w", err)
	}

	c.logger.Debug("Requesting fee options from relayer",
		zap.String("url", requestURL),
		zap.String("fromChain", fromChain),
		zap.String("toChain", toChain),
		zap.String("symbol", token.TokenSymbol()),
		zap.String("unitPrice", unitPrice.String()))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	metrics.FeeQuoteDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FeeQuoteRequestsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		c.logger.Error("Failed to execute relayer fee request", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	rawBody := resp.Body()

	if resp.StatusCode() != fasthttp.StatusOK {
		metrics.FeeQuoteRequestsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		c.logger.Error("Relayer fee request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))

		var errResp wire.RelayerErrorResponse
		if unmarshalErr := json.Unmarshal(rawBody, &errResp); unmarshalErr == nil && errResp.Message != "" {
			return nil, fmt.Errorf("relayer fee request failed with status %d: %s", resp.StatusCode(), errResp.Message)
		}
		return nil, fmt.Errorf("relayer fee request failed with status %d: %s", resp.StatusCode(), string(rawBody))
	}

	var feeResp wire.RelayerFeeResponse
	if err := json.Unmarshal(rawBody, &feeResp); err != nil {
		metrics.FeeQuoteRequestsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		c.logger.Error("Failed to unmarshal relayer fee response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal relayer fee response from %s: %w", requestURL, err)
	}

	set := make(entity.FeeSet, 0, len(feeResp.Fees))
	for _, raw := range feeResp.Fees {
		amount, err := decimal.NewFromString(raw.Amount)
		if err != nil {
			return nil, fmt.Errorf("malformed fee amount %q for option %s: %w", raw.Amount, raw.ID, err)
		}
		fiat, err := decimal.NewFromString(raw.FiatAmount)
		if err != nil {
			return nil, fmt.Errorf("malformed fiat amount %q for option %s: %w", raw.FiatAmount, raw.ID, err)
		}
		set = append(set, entity.FeeOption{
			ID:         raw.ID,
			Label:      raw.Label,
			Amount:     amount,
			Denom:      raw.Denom,
			FiatAmount: fiat,
		})
	}

	metrics.FeeQuoteRequestsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	c.logger.Debug("Relayer returned fee options", zap.Int("optionCount", len(set)))
	return set, nil
}
