package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/papertrade/account"
	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/session"
)

type Handler struct {
	session *session.Session
	prices  *market.StaticPrices
}

type CreateAccountRequest struct {
	ID             string          `json:"id"`
	InitialDeposit decimal.Decimal `json:"initial_deposit"`
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type TradeRequest struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
}

type QuoteResponse struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Known  bool            `json:"known"`
}

type ProfitOrLossResponse struct {
	PortfolioValue decimal.Decimal `json:"portfolio_value"`
	ProfitOrLoss   decimal.Decimal `json:"profit_or_loss"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if !decode(w, r, &req) {
		return
	}
	sum, err := h.session.Create(strings.TrimSpace(req.ID), req.InitialDeposit)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, sum)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.session.Summary()
	if err != nil {
		respondDomainError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, sum)
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.cashMove(w, r, h.session.Deposit)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.cashMove(w, r, h.session.Withdraw)
}

func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.session.Buy)
}

func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.session.Sell)
}

func (h *Handler) Holdings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.session.Holdings()
	if err != nil {
		respondDomainError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, holdings)
}

func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.session.Transactions()
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if txs == nil {
		txs = []account.Entry{}
	}
	RespondJSON(w, http.StatusOK, txs)
}

func (h *Handler) ProfitOrLoss(w http.ResponseWriter, r *http.Request) {
	sum, err := h.session.Summary()
	if err != nil {
		respondDomainError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, ProfitOrLossResponse{
		PortfolioValue: sum.PortfolioValue,
		ProfitOrLoss:   sum.ProfitOrLoss,
	})
}

func (h *Handler) Prices(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.prices.Snapshot())
}

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	px, ok := h.session.Quote(symbol)
	RespondJSON(w, http.StatusOK, QuoteResponse{
		Symbol: strings.ToUpper(symbol),
		Price:  px,
		Known:  ok,
	})
}

func (h *Handler) cashMove(w http.ResponseWriter, r *http.Request, op func(decimal.Decimal) (session.Summary, error)) {
	var req AmountRequest
	if !decode(w, r, &req) {
		return
	}
	sum, err := op(req.Amount)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, sum)
}

func (h *Handler) trade(w http.ResponseWriter, r *http.Request, op func(string, int64) (session.Summary, error)) {
	var req TradeRequest
	if !decode(w, r, &req) {
		return
	}
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		RespondError(w, http.StatusBadRequest, "symbol is required", nil)
		return
	}
	sum, err := op(symbol, req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, sum)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}
