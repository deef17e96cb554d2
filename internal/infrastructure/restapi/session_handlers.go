package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bridge_quoter/internal/app/port"
	"bridge_quoter/internal/app/service"
	"bridge_quoter/internal/domain/entity"
	"bridge_quoter/internal/infrastructure/configloader"
	"bridge_quoter/internal/infrastructure/tokenloader"
)

// SessionHandler translates HTTP requests into quote session events and
// session state into JSON. It holds no quoting logic of its own.
type SessionHandler struct {
	store  *service.SessionStore
	tokens []entity.Token
	cfg    *configloader.Config
	logger *zap.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(store *service.SessionStore, tokens []entity.Token, cfg *configloader.Config, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		store:  store,
		tokens: tokens,
		cfg:    cfg,
		logger: logger.Named("SessionHandler"),
	}
}

type createSessionResponse struct {
	SessionID string `json:"sessionId"`
}

// CreateSessionHandler opens a new quote session.
func (h *SessionHandler) CreateSessionHandler(c *gin.Context) {
	id, _ := h.store.Create()
	c.JSON(http.StatusCreated, createSessionResponse{SessionID: id})
}

func (h *SessionHandler) session(c *gin.Context) (port.QuoteSession, bool) {
	id := c.Param("id")
	session, found := h.store.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return session, true
}

type setTokenRequest struct {
	Symbol string `json:"symbol" binding:"required"`
	Family string `json:"family" binding:"required,oneof=evm cosmos"`
}

// SetTokenHandler selects the token to bridge, restarting price resolution.
func (h *SessionHandler) SetTokenHandler(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req setTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, found := tokenloader.FindToken(h.tokens, req.Symbol, entity.ChainFamily(req.Family))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown token"})
		return
	}
	session.SetToken(token)
	c.JSON(http.StatusOK, h.quoteResponse(session))
}

type setRouteRequest struct {
	FromChain string `json:"fromChain" binding:"required"`
	ToChain   string `json:"toChain" binding:"required"`
}

// SetRouteHandler records the chain pair for the transfer.
func (h *SessionHandler) SetRouteHandler(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req setRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session.SetRoute(req.FromChain, req.ToChain)
	c.JSON(http.StatusOK, h.quoteResponse(session))
}

type rawInputRequest struct {
	Value string `json:"value"`
}

// SetAmountHandler records the raw transfer amount input.
func (h *SessionHandler) SetAmountHandler(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req rawInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session.SetAmount(req.Value)
	c.JSON(http.StatusOK, h.quoteResponse(session))
}

// SetBalanceHandler records the raw balance input.
func (h *SessionHandler) SetBalanceHandler(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req rawInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session.SetBalance(req.Value)
	c.JSON(http.StatusOK, h.quoteResponse(session))
}

// ManualPriceHandler feeds one manual price keystroke state into the session.
func (h *SessionHandler) ManualPriceHandler(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req rawInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session.InputManualPrice(req.Value)
	c.JSON(http.StatusOK, h.quoteResponse(session))
}

type feeClickRequest struct {
	ID         string `json:"id" binding:"required"`
	Label      string `json:"label"`
	Amount     string `json:"amount" binding:"required"`
	Denom      string `json:"denom" binding:"required"`
	FiatAmount string `json:"fiatAmount" binding:"required"`
}

// FeeClickHandler sets the selection to the clicked fee option.
func (h *SessionHandler) FeeClickHandler(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req feeClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed amount"})
		return
	}
	fiat, err := decimal.NewFromString(req.FiatAmount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed fiatAmount"})
		return
	}
	session.ClickFee(entity.FeeOption{
		ID:         req.ID,
		Label:      req.Label,
		Amount:     amount,
		Denom:      req.Denom,
		FiatAmount: fiat,
	})
	c.JSON(http.StatusOK, h.quoteResponse(session))
}

// GetQuoteHandler returns the current session snapshot.
func (h *SessionHandler) GetQuoteHandler(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.quoteResponse(session))
}

type tokenDTO struct {
	Symbol   string `json:"symbol"`
	Family   string `json:"family"`
	Decimals uint8  `json:"decimals"`
}

// ListTokensHandler returns the selectable token catalog.
func (h *SessionHandler) ListTokensHandler(c *gin.Context) {
	out := make([]tokenDTO, 0, len(h.tokens))
	for _, token := range h.tokens {
		out = append(out, tokenDTO{
			Symbol:   token.TokenSymbol(),
			Family:   string(token.Family()),
			Decimals: token.TokenDecimals(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"tokens": out})
}

type chainDTO struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Family     string `json:"family"`
}

// ListChainsHandler returns the chains configured as transfer endpoints.
func (h *SessionHandler) ListChainsHandler(c *gin.Context) {
	out := make([]chainDTO, 0, len(h.cfg.Chains))
	for _, chain := range h.cfg.Chains {
		out = append(out, chainDTO{
			Name:       chain.Name,
			Identifier: chain.Identifier,
			Family:     chain.Family,
		})
	}
	c.JSON(http.StatusOK, gin.H{"chains": out})
}

type feeOptionDTO struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Amount     string `json:"amount"`
	Denom      string `json:"denom"`
	FiatAmount string `json:"fiatAmount"`
}

type priceDTO struct {
	State       string `json:"state"`
	OraclePrice string `json:"oraclePrice,omitempty"`
	ManualInput string `json:"manualInput,omitempty"`
	ManualValid bool   `json:"manualValid"`
}

type quoteResponse struct {
	Price        priceDTO       `json:"price"`
	Fees         []feeOptionDTO `json:"fees"`
	Selection    *feeOptionDTO  `json:"selection,omitempty"`
	Disabled     []bool         `json:"disabled"`
	MaxAmount    string         `json:"maxAmount,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
}

func (h *SessionHandler) quoteResponse(session port.QuoteSession) quoteResponse {
	view := session.Snapshot()

	resp := quoteResponse{
		Price: priceDTO{
			State:       view.Price.State.String(),
			ManualInput: view.Price.ManualInput,
			ManualValid: view.Price.ManualValid,
		},
		Fees:         make([]feeOptionDTO, 0, len(view.Fees)),
		Disabled:     view.Disabled,
		MaxAmount:    view.MaxAmount,
		ErrorMessage: view.ErrorMessage,
	}
	if view.Price.State == entity.PriceFromOracle {
		resp.Price.OraclePrice = view.Price.OraclePrice.String()
	}
	for _, opt := range view.Fees {
		resp.Fees = append(resp.Fees, toFeeOptionDTO(opt))
	}
	if view.Selection != nil {
		selected := toFeeOptionDTO(*view.Selection)
		resp.Selection = &selected
	}
	return resp
}

func toFeeOptionDTO(opt entity.FeeOption) feeOptionDTO {
	return feeOptionDTO{
		ID:         opt.ID,
		Label:      opt.Label,
		Amount:     opt.Amount.String(),
		Denom:      opt.Denom,
		FiatAmount: opt.FiatAmount.String(),
	}
}
