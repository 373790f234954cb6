// Package httpapi exposes the services over a JSON HTTP API.
// Amounts travel as strings and are parsed with shopspring/decimal;
// rounding happens only in the display fields.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cardfolio/cardfolio-backend/internal/domain"
	holdingusecase "github.com/cardfolio/cardfolio-backend/internal/usecase/holding"
	"github.com/cardfolio/cardfolio-backend/internal/usecase/pricewatch"
	spotusecase "github.com/cardfolio/cardfolio-backend/internal/usecase/spot"
	"github.com/cardfolio/cardfolio-backend/internal/usecase/valuation"
)

// Server routes HTTP requests to the use-case services
type Server struct {
	holdings   *holdingusecase.Service
	spots      *spotusecase.Service
	pricewatch *pricewatch.Service // nil when no price source is configured
	currency   string
	mux        *http.ServeMux
}

// NewServer creates the HTTP adapter. pricewatchService may be nil; the
// refresh endpoints then answer 503.
func NewServer(holdings *holdingusecase.Service, spots *spotusecase.Service, pricewatchService *pricewatch.Service, currency string) *Server {
	s := &Server{
		holdings:   holdings,
		spots:      spots,
		pricewatch: pricewatchService,
		currency:   currency,
		mux:        http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/summary", s.handleSummary)
	s.mux.HandleFunc("/refresh-prices", s.handleRefreshAll)
	s.mux.HandleFunc("/holdings", s.handleHoldings)
	s.mux.HandleFunc("/holdings/", s.handleHoldingsSub)
	s.mux.HandleFunc("/spots", s.handleSpots)
	s.mux.HandleFunc("/spots/", s.handleSpotsSub)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	s.mux.ServeHTTP(w, r)
}

/* ======= DTOs ======= */

type lotRequest struct {
	Date      string `json:"date"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int64  `json:"quantity"`
	Source    string `json:"source"`
}

type createHoldingRequest struct {
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	CurrentEstimate string     `json:"currentEstimate"`
	MarketQuery     string     `json:"marketQuery"`
	InitialLot      lotRequest `json:"initialLot"`
}

type saleRequest struct {
	Date      string `json:"date"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int64  `json:"quantity"`
	Platform  string `json:"platform"`
}

type estimateRequest struct {
	Price string `json:"price"`
	AsOf  string `json:"asOf"`
}

type targetRequest struct {
	Price *string `json:"price"` // null clears the target
}

type lotResponse struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int64  `json:"quantity"`
	Source    string `json:"source"`
}

type saleResponse struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int64  `json:"quantity"`
	Platform  string `json:"platform"`
	Gross     string `json:"grossAmount"`
	Fee       string `json:"feeAmount"`
	Net       string `json:"netAmount"`
}

type pricePointResponse struct {
	Date  string `json:"date"`
	Price string `json:"price"`
}

type marketEstimateResponse struct {
	Median     string    `json:"median"`
	Min        string    `json:"min"`
	Max        string    `json:"max"`
	SalesCount int       `json:"salesCount"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type metricsResponse struct {
	TotalQuantity     int64  `json:"totalQuantity"`
	SoldQuantity      int64  `json:"soldQuantity"`
	RemainingQuantity int64  `json:"remainingQuantity"`
	AverageCost       string `json:"averageCost"`
	TotalCost         string `json:"totalCost"`
	CurrentValue      string `json:"currentValue"`
	RealizedPnL       string `json:"realizedPnl"`
	UnrealizedPnL     string `json:"unrealizedPnl"`
	TotalPnL          string `json:"totalPnl"`
	TotalPnLPct       string `json:"totalPnlPct"`
	TotalPnLDisplay   string `json:"totalPnlDisplay"`
}

type holdingResponse struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	Category         string                  `json:"category"`
	CurrentEstimate  string                  `json:"currentEstimate"`
	TargetAlertPrice *string                 `json:"targetAlertPrice,omitempty"`
	MarketQuery      string                  `json:"marketQuery,omitempty"`
	MarketEstimate   *marketEstimateResponse `json:"marketEstimate,omitempty"`
	Lots             []lotResponse           `json:"lots"`
	Sales            []saleResponse          `json:"sales"`
	PriceHistory     []pricePointResponse    `json:"priceHistory,omitempty"`
	Metrics          *metricsResponse        `json:"metrics,omitempty"`
	AlertTriggered   bool                    `json:"alertTriggered,omitempty"`
}

type summaryResponse struct {
	TotalCost         string             `json:"totalCost"`
	TotalCurrentValue string             `json:"totalCurrentValue"`
	TotalRealizedPnL  string             `json:"totalRealizedPnl"`
	TotalPnL          string             `json:"totalPnl"`
	TotalPnLPct       string             `json:"totalPnlPct"`
	TotalPnLDisplay   string             `json:"totalPnlDisplay"`
	BestPerformer     *performerResponse `json:"bestPerformer,omitempty"`
	WorstPerformer    *performerResponse `json:"worstPerformer,omitempty"`
}

type performerResponse struct {
	HoldingID   string `json:"holdingId"`
	Name        string `json:"name"`
	TotalPnLPct string `json:"totalPnlPct"`
}

const dateLayout = "2006-01-02"

// normalizeEnum maps client-friendly values like "ebay" or
// "Ultra Premium Collection" onto the domain's enum spelling.
func normalizeEnum(value string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(value)), " ", "_")
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (s *Server) toHoldingResponse(h *domain.Holding, metrics *valuation.Metrics, alertTriggered bool) holdingResponse {
	out := holdingResponse{
		ID:              h.ID.String(),
		Name:            h.Name,
		Category:        string(h.Category),
		CurrentEstimate: h.CurrentEstimate.String(),
		MarketQuery:     h.MarketQuery,
		Lots:            make([]lotResponse, 0, len(h.Lots)),
		Sales:           make([]saleResponse, 0, len(h.Sales)),
		AlertTriggered:  alertTriggered,
	}
	if h.TargetAlertPrice != nil {
		target := h.TargetAlertPrice.String()
		out.TargetAlertPrice = &target
	}
	if h.MarketEstimate != nil {
		out.MarketEstimate = &marketEstimateResponse{
			Median:     h.MarketEstimate.Median.String(),
			Min:        h.MarketEstimate.Min.String(),
			Max:        h.MarketEstimate.Max.String(),
			SalesCount: h.MarketEstimate.SalesCount,
			UpdatedAt:  h.MarketEstimate.UpdatedAt,
		}
	}
	for _, lot := range h.Lots {
		out.Lots = append(out.Lots, lotResponse{
			ID:        lot.ID.String(),
			Date:      lot.Date.Format(dateLayout),
			UnitPrice: lot.UnitPrice.String(),
			Quantity:  lot.Quantity,
			Source:    lot.Source,
		})
	}
	for _, sale := range h.Sales {
		out.Sales = append(out.Sales, saleResponse{
			ID:        sale.ID.String(),
			Date:      sale.Date.Format(dateLayout),
			UnitPrice: sale.UnitPrice.String(),
			Quantity:  sale.Quantity,
			Platform:  string(sale.Platform),
			Gross:     sale.Gross.String(),
			Fee:       sale.Fee.String(),
			Net:       sale.Net.String(),
		})
	}
	for _, point := range h.PriceHistory {
		out.PriceHistory = append(out.PriceHistory, pricePointResponse{
			Date:  point.Date.Format(dateLayout),
			Price: point.Price.String(),
		})
	}
	if metrics != nil {
		out.Metrics = &metricsResponse{
			TotalQuantity:     metrics.TotalQuantity,
			SoldQuantity:      metrics.SoldQuantity,
			RemainingQuantity: metrics.RemainingQuantity,
			AverageCost:       metrics.AverageCost.String(),
			TotalCost:         metrics.TotalCost.String(),
			CurrentValue:      metrics.CurrentValue.String(),
			RealizedPnL:       metrics.RealizedPnL.String(),
			UnrealizedPnL:     metrics.UnrealizedPnL.String(),
			TotalPnL:          metrics.TotalPnL.String(),
			TotalPnLPct:       valuation.FormatPercent(metrics.TotalPnLPct),
			TotalPnLDisplay:   valuation.FormatAmount(metrics.TotalPnL, s.currency),
		}
	}
	return out
}

/* ======= Holdings ======= */

func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		defer r.Body.Close()
		var req createHoldingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
			return
		}
		input, err := toCreateInput(req)
		if err != nil {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}
		h, err := s.holdings.Create(r.Context(), input)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		metrics := valuation.ComputeHoldingMetrics(h)
		writeJSON(w, http.StatusCreated, s.toHoldingResponse(h, &metrics, false))
	case http.MethodGet:
		list, err := s.holdings.List(r.Context())
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		out := make([]holdingResponse, 0, len(list))
		for _, item := range list {
			out = append(out, s.toHoldingResponse(item.Holding, &item.Metrics, false))
		}
		writeJSON(w, http.StatusOK, out)
	default:
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func toCreateInput(req createHoldingRequest) (holdingusecase.CreateInput, error) {
	estimate := decimal.Zero
	if req.CurrentEstimate != "" {
		var err error
		estimate, err = decimal.NewFromString(req.CurrentEstimate)
		if err != nil {
			return holdingusecase.CreateInput{}, errors.New("invalid currentEstimate: " + err.Error())
		}
	}
	lot, err := toLotInput(req.InitialLot)
	if err != nil {
		return holdingusecase.CreateInput{}, err
	}
	return holdingusecase.CreateInput{
		Name:            req.Name,
		Category:        domain.Category(normalizeEnum(req.Category)),
		CurrentEstimate: estimate,
		MarketQuery:     req.MarketQuery,
		InitialLot:      lot,
	}, nil
}

func toLotInput(req lotRequest) (holdingusecase.LotInput, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return holdingusecase.LotInput{}, errors.New("invalid date: " + err.Error())
	}
	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return holdingusecase.LotInput{}, errors.New("invalid unitPrice: " + err.Error())
	}
	return holdingusecase.LotInput{
		Date:      date,
		UnitPrice: price,
		Quantity:  req.Quantity,
		Source:    req.Source,
	}, nil
}

func (s *Server) handleHoldingsSub(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/holdings/"), "/")
	if rest == "" {
		http.NotFound(w, r)
		return
	}
	parts := strings.Split(rest, "/")

	holdingID, err := uuid.Parse(parts[0])
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid holding id")
		return
	}

	switch {
	case len(parts) == 1:
		s.handleHolding(w, r, holdingID)
	case len(parts) == 2 && parts[1] == "lots" && r.Method == http.MethodPost:
		s.handleAddLot(w, r, holdingID)
	case len(parts) == 3 && parts[1] == "lots":
		s.handleLot(w, r, holdingID, parts[2])
	case len(parts) == 2 && parts[1] == "sales" && r.Method == http.MethodPost:
		s.handleAddSale(w, r, holdingID)
	case len(parts) == 3 && parts[1] == "sales":
		s.handleSale(w, r, holdingID, parts[2])
	case len(parts) == 2 && parts[1] == "estimate" && r.Method == http.MethodPut:
		s.handleEstimate(w, r, holdingID)
	case len(parts) == 2 && parts[1] == "target" && r.Method == http.MethodPut:
		s.handleTarget(w, r, holdingID)
	case len(parts) == 2 && parts[1] == "refresh" && r.Method == http.MethodPost:
		s.handleRefreshOne(w, r, holdingID)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleHolding(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	item, err := s.holdings.Get(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toHoldingResponse(item.Holding, &item.Metrics, false))
}

func (s *Server) handleAddLot(w http.ResponseWriter, r *http.Request, holdingID uuid.UUID) {
	defer r.Body.Close()
	var req lotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	input, err := toLotInput(req)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	h, err := s.holdings.RecordPurchase(r.Context(), holdingID, input)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	metrics := valuation.ComputeHoldingMetrics(h)
	writeJSON(w, http.StatusCreated, s.toHoldingResponse(h, &metrics, false))
}

func (s *Server) handleLot(w http.ResponseWriter, r *http.Request, holdingID uuid.UUID, rawLotID string) {
	lotID, err := uuid.Parse(rawLotID)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid lot id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		defer r.Body.Close()
		var req lotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
			return
		}
		input, err := toLotInput(req)
		if err != nil {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}
		h, err := s.holdings.UpdateLot(r.Context(), holdingID, lotID, input)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		metrics := valuation.ComputeHoldingMetrics(h)
		writeJSON(w, http.StatusOK, s.toHoldingResponse(h, &metrics, false))
	case http.MethodDelete:
		h, err := s.holdings.DeleteLot(r.Context(), holdingID, lotID)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		if h == nil {
			// last lot removed: the holding is gone with it
			w.WriteHeader(http.StatusNoContent)
			return
		}
		metrics := valuation.ComputeHoldingMetrics(h)
		writeJSON(w, http.StatusOK, s.toHoldingResponse(h, &metrics, false))
	default:
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleAddSale(w http.ResponseWriter, r *http.Request, holdingID uuid.UUID) {
	defer r.Body.Close()
	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}
	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid unitPrice: "+err.Error())
		return
	}
	h, err := s.holdings.RecordSale(r.Context(), holdingID, holdingusecase.SaleInput{
		Date:      date,
		UnitPrice: price,
		Quantity:  req.Quantity,
		Platform:  domain.Platform(normalizeEnum(req.Platform)),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	metrics := valuation.ComputeHoldingMetrics(h)
	writeJSON(w, http.StatusCreated, s.toHoldingResponse(h, &metrics, false))
}

func (s *Server) handleSale(w http.ResponseWriter, r *http.Request, holdingID uuid.UUID, rawSaleID string) {
	if r.Method != http.MethodDelete {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	saleID, err := uuid.Parse(rawSaleID)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	h, err := s.holdings.DeleteSale(r.Context(), holdingID, saleID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	metrics := valuation.ComputeHoldingMetrics(h)
	writeJSON(w, http.StatusOK, s.toHoldingResponse(h, &metrics, false))
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request, holdingID uuid.UUID) {
	defer r.Body.Close()
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid price: "+err.Error())
		return
	}
	asOf, err := parseDate(req.AsOf)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid asOf: "+err.Error())
		return
	}
	h, triggered, err := s.holdings.UpdateEstimate(r.Context(), holdingID, price, asOf)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	metrics := valuation.ComputeHoldingMetrics(h)
	writeJSON(w, http.StatusOK, s.toHoldingResponse(h, &metrics, triggered))
}

func (s *Server) handleTarget(w http.ResponseWriter, r *http.Request, holdingID uuid.UUID) {
	defer r.Body.Close()
	var req targetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	var target *decimal.Decimal
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid price: "+err.Error())
			return
		}
		target = &price
	}
	h, err := s.holdings.SetTargetPrice(r.Context(), holdingID, target)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	metrics := valuation.ComputeHoldingMetrics(h)
	writeJSON(w, http.StatusOK, s.toHoldingResponse(h, &metrics, false))
}

func (s *Server) handleRefreshOne(w http.ResponseWriter, r *http.Request, holdingID uuid.UUID) {
	if s.pricewatch == nil {
		httpError(w, http.StatusServiceUnavailable, "no price source configured")
		return
	}
	triggered, err := s.pricewatch.Refresh(r.Context(), holdingID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"alertTriggered": triggered})
}

func (s *Server) handleRefreshAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.pricewatch == nil {
		httpError(w, http.StatusServiceUnavailable, "no price source configured")
		return
	}
	result, err := s.pricewatch.RefreshAll(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"updated": result.Updated,
		"skipped": result.Skipped,
		"failed":  result.Failed,
	})
}

/* ======= Summary ======= */

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	summary, err := s.holdings.Summary(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := summaryResponse{
		TotalCost:         summary.TotalCost.String(),
		TotalCurrentValue: summary.TotalCurrentValue.String(),
		TotalRealizedPnL:  summary.TotalRealizedPnL.String(),
		TotalPnL:          summary.TotalPnL.String(),
		TotalPnLPct:       valuation.FormatPercent(summary.TotalPnLPct),
		TotalPnLDisplay:   valuation.FormatAmount(summary.TotalPnL, s.currency),
	}
	if summary.BestPerformer != nil {
		out.BestPerformer = toPerformerResponse(summary.BestPerformer)
	}
	if summary.WorstPerformer != nil {
		out.WorstPerformer = toPerformerResponse(summary.WorstPerformer)
	}
	writeJSON(w, http.StatusOK, out)
}

func toPerformerResponse(p *valuation.Performance) *performerResponse {
	return &performerResponse{
		HoldingID:   p.HoldingID,
		Name:        p.Name,
		TotalPnLPct: valuation.FormatPercent(p.TotalPnLPct),
	}
}

/* ======= Spots ======= */

type spotRequest struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Rating int    `json:"rating"`
	Note   string `json:"note"`
}

type spotResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Rating int    `json:"rating"`
	Note   string `json:"note,omitempty"`
}

type spotPurchaseResponse struct {
	Lot             lotResponse `json:"lot"`
	HoldingID       string      `json:"holdingId"`
	HoldingName     string      `json:"holdingName"`
	HoldingCategory string      `json:"holdingCategory"`
}

func toSpotResponse(s *domain.Spot) spotResponse {
	return spotResponse{
		ID:     s.ID.String(),
		Name:   s.Name,
		Kind:   string(s.Kind),
		Rating: s.Rating,
		Note:   s.Note,
	}
}

func (s *Server) handleSpots(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		defer r.Body.Close()
		var req spotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
			return
		}
		spot, err := s.spots.Create(r.Context(), spotusecase.CreateInput{
			Name:   req.Name,
			Kind:   domain.SpotKind(normalizeEnum(req.Kind)),
			Rating: req.Rating,
			Note:   req.Note,
		})
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toSpotResponse(spot))
	case http.MethodGet:
		spots, err := s.spots.List(r.Context())
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		out := make([]spotResponse, 0, len(spots))
		for _, spot := range spots {
			out = append(out, toSpotResponse(spot))
		}
		writeJSON(w, http.StatusOK, out)
	default:
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleSpotsSub(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/spots/"), "/")
	if rest == "" {
		http.NotFound(w, r)
		return
	}
	parts := strings.Split(rest, "/")

	spotID, err := uuid.Parse(parts[0])
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid spot id")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodDelete:
		if err := s.spots.Delete(r.Context(), spotID); err != nil {
			s.writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case len(parts) == 2 && parts[1] == "purchases" && r.Method == http.MethodGet:
		purchases, err := s.spots.Purchases(r.Context(), spotID)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		out := make([]spotPurchaseResponse, 0, len(purchases))
		for _, p := range purchases {
			out = append(out, spotPurchaseResponse{
				Lot: lotResponse{
					ID:        p.Lot.ID.String(),
					Date:      p.Lot.Date.Format(dateLayout),
					UnitPrice: p.Lot.UnitPrice.String(),
					Quantity:  p.Lot.Quantity,
					Source:    p.Lot.Source,
				},
				HoldingID:       p.HoldingID.String(),
				HoldingName:     p.HoldingName,
				HoldingCategory: string(p.HoldingCategory),
			})
		}
		writeJSON(w, http.StatusOK, out)
	default:
		http.NotFound(w, r)
	}
}

/* ======= error mapping & helpers ======= */

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var oversell *domain.OversellError
	switch {
	case errors.As(err, &oversell):
		httpError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrHoldingNotFound),
		errors.Is(err, domain.ErrLotNotFound),
		errors.Is(err, domain.ErrSaleNotFound),
		errors.Is(err, domain.ErrSpotNotFound):
		httpError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidLot),
		errors.Is(err, domain.ErrInvalidSale),
		errors.Is(err, domain.ErrInvalidEstimate),
		errors.Is(err, domain.ErrUnknownPlatform),
		errors.Is(err, domain.ErrNoMarketQuery),
		errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrNoLots):
		httpError(w, http.StatusBadRequest, err.Error())
	default:
		httpError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":  http.StatusText(status),
		"detail": msg,
	})
}
