package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bridge_quoter/internal/app/port"
	"bridge_quoter/internal/domain/entity"
	"bridge_quoter/internal/feemath"
)

// quoteSessionImpl implements port.QuoteSession.
//
// Supersession of stale I/O is done with generation counters, not the lock:
// every trigger (token change, route change, manual price) bumps the relevant
// generation, and an in-flight response is applied only if its generation is
// still current when it arrives. Last trigger wins, never last response.
type quoteSessionImpl struct {
	logger         *zap.Logger
	oracle         port.PriceOracle
	feeProvider    port.FeeQuoteProvider
	requestTimeout time.Duration

	mu        sync.Mutex
	token     entity.Token
	fromChain string
	toChain   string
	amount    string
	balance   string
	price     entity.ResolvedPrice
	feeSet    entity.FeeSet
	selection *entity.FeeOption
	errMsg    string
	priceGen  uint64
	feeGen    uint64
}

// NewQuoteSession creates a session with no token selected and no fees.
func NewQuoteSession(
	oracle port.PriceOracle,
	feeProvider port.FeeQuoteProvider,
	requestTimeout time.Duration,
	logger *zap.Logger,
) port.QuoteSession {
	return &quoteSessionImpl{
		logger:         logger.Named("QuoteSession"),
		oracle:         oracle,
		feeProvider:    feeProvider,
		requestTimeout: requestTimeout,
		price:          entity.UnavailablePrice(),
	}
}

// SetToken implements port.QuoteSession.
func (s *quoteSessionImpl) SetToken(token entity.Token) {
	s.mu.Lock()
	s.token = token
	s.price = entity.LoadingPrice()
	s.feeSet = nil
	s.selection = nil
	s.errMsg = ""
	s.priceGen++
	s.feeGen++ // invalidates any in-flight fee fetch for the old token
	gen := s.priceGen
	s.mu.Unlock()

	s.logger.Debug("Token selected, resolving price",
		zap.String("symbol", token.TokenSymbol()),
		zap.String("family", string(token.Family())))

	go s.resolvePrice(gen, token)
}

// resolvePrice runs the oracle query for one price generation and applies the
// result only if that generation is still current.
func (s *quoteSessionImpl) resolvePrice(gen uint64, token entity.Token) {
	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
	defer cancel()

	price, err := s.oracle.FetchPrice(ctx, token)

	s.mu.Lock()
	if gen != s.priceGen {
		s.mu.Unlock()
		s.logger.Debug("Discarding stale oracle response",
			zap.String("symbol", token.TokenSymbol()),
			zap.Uint64("generation", gen))
		return
	}

	if err != nil || !price.IsPositive() {
		if err != nil && !errors.Is(err, entity.ErrPriceUnavailable) {
			s.logger.Warn("Oracle query failed, switching to manual price entry",
				zap.String("symbol", token.TokenSymbol()),
				zap.Error(err))
		}
		s.price = entity.ManualPrice("")
		s.mu.Unlock()
		return
	}

	s.price = entity.OraclePriceOf(price)
	s.feeGen++
	feeGen := s.feeGen
	fromChain, toChain := s.fromChain, s.toChain
	s.mu.Unlock()

	s.logger.Debug("Oracle price resolved",
		zap.String("symbol", token.TokenSymbol()),
		zap.String("price", price.String()))

	if fromChain == "" || toChain == "" {
		// no route yet; SetRoute triggers the fetch once both ends are known
		return
	}
	go s.refreshFees(feeGen, fromChain, toChain, token, price)
}

// SetRoute implements port.QuoteSession.
func (s *quoteSessionImpl) SetRoute(fromChain, toChain string) {
	s.mu.Lock()
	s.fromChain = fromChain
	s.toChain = toChain
	price, usable := s.price.UsablePrice()
	if !usable {
		s.mu.Unlock()
		return
	}
	s.feeGen++
	gen := s.feeGen
	token := s.token
	s.mu.Unlock()

	go s.refreshFees(gen, fromChain, toChain, token, price)
}

// SetAmount implements port.QuoteSession.
func (s *quoteSessionImpl) SetAmount(raw string) {
	s.mu.Lock()
	s.amount = raw
	s.mu.Unlock()
}

// SetBalance implements port.QuoteSession.
func (s *quoteSessionImpl) SetBalance(raw string) {
	s.mu.Lock()
	s.balance = raw
	s.mu.Unlock()
}

// InputManualPrice implements port.QuoteSession.
func (s *quoteSessionImpl) InputManualPrice(raw string) {
	s.mu.Lock()
	if s.price.State != entity.PriceNeedsManual {
		s.mu.Unlock()
		return
	}
	if !entity.MatchesManualPriceInput(raw) {
		// rejected keystroke, state unchanged
		s.mu.Unlock()
		return
	}

	s.price = entity.ManualPrice(raw)
	price, usable := s.price.UsablePrice()
	s.feeGen++
	if !usable {
		// no usable price: fee set forced empty, no request, no error
		s.feeSet = nil
		s.selection = nil
		s.errMsg = ""
		s.mu.Unlock()
		return
	}
	gen := s.feeGen
	fromChain, toChain, token := s.fromChain, s.toChain, s.token
	s.mu.Unlock()

	if fromChain == "" || toChain == "" {
		return
	}
	go s.refreshFees(gen, fromChain, toChain, token, price)
}

// refreshFees issues one fee-quote request for a fee generation and applies
// the outcome only if that generation is still current.
func (s *quoteSessionImpl) refreshFees(gen uint64, fromChain, toChain string, token entity.Token, unitPrice decimal.Decimal) {
	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
	defer cancel()

	set, err := s.feeProvider.GetFees(ctx, fromChain, toChain, token, unitPrice)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.feeGen {
		s.logger.Debug("Discarding stale fee quote response", zap.Uint64("generation", gen))
		return
	}

	if err != nil {
		s.feeSet = nil
		s.selection = nil
		s.errMsg = entity.ClassifyFeeQuoteError(err)
		s.logger.Warn("Fee quote request failed",
			zap.String("fromChain", fromChain),
			zap.String("toChain", toChain),
			zap.String("symbol", token.TokenSymbol()),
			zap.Error(err))
		return
	}

	s.feeSet = set
	s.selection = entity.ReconcileSelection(s.selection, set)
	s.errMsg = ""
	s.logger.Debug("Fee set refreshed",
		zap.String("fromChain", fromChain),
		zap.String("toChain", toChain),
		zap.Int("optionCount", len(set)))
}

// ClickFee implements port.QuoteSession.
func (s *quoteSessionImpl) ClickFee(option entity.FeeOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chosen := option
	s.selection = &chosen
}

// Snapshot implements port.QuoteSession.
func (s *quoteSessionImpl) Snapshot() entity.QuoteView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := entity.QuoteView{
		Price:        s.price,
		Fees:         append(entity.FeeSet(nil), s.feeSet...),
		Disabled:     feemath.DisabledFlags(s.feeSet, s.amount, s.balance),
		ErrorMessage: s.errMsg,
	}
	if s.selection != nil {
		selected := *s.selection
		view.Selection = &selected
	}
	if s.selection != nil && s.token != nil {
		if balance, err := feemath.ParseDecimal("balance", s.balance); err == nil {
			maxAmount := feemath.MaxBridgeAmount(balance, s.selection.Amount, int32(s.token.TokenDecimals()))
			view.MaxAmount = maxAmount.String()
		}
	}
	return view
}
