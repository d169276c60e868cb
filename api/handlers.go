/*
handlers.go - HTTP API handlers for the three-ledger bookkeeping engine

PURPOSE:
  Exposes the purchase, sales, and service ledgers via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to the ledger
  engine.

ENDPOINTS:
  Parties (ledger = purchase | sales | service):
    POST   /api/{ledger}/parties               Resolve-or-create a party
    GET    /api/{ledger}/parties/{id}          Get party with totals
    GET    /api/{ledger}/parties?name=&phone=  Exact lookup
    GET    /api/{ledger}/parties/search        Autocomplete by name or phone
    PUT    /api/{ledger}/parties/{id}/contact  Update phone and place

  Items:
    POST   /api/{ledger}/parties/{id}/items    Add line item
    GET    /api/{ledger}/parties/{id}/items    List items (date filterable)
    PUT    /api/{ledger}/items/{id}            Edit name/description
    DELETE /api/{ledger}/items/{id}            Delete and rebalance
    POST   /api/{ledger}/items/{id}/return     Partial quantity return
    GET    /api/{ledger}/items/suggest?q=      Item-name autocomplete

  Payments:
    POST   /api/{ledger}/parties/{id}/payments         Add payment entry
    POST   /api/{ledger}/parties/{id}/payments/record  Bounded fast path
    POST   /api/{ledger}/parties/{id}/refunds          Refund overpayment
    GET    /api/{ledger}/parties/{id}/payments         Payment history
    GET    /api/{ledger}/parties/{id}/activity         Active calendar dates
    GET    /api/{ledger}/payments/recent               Cross-party feed
    GET    /api/{ledger}/report/items?from=&to=        Date-range report

  Service desk:
    POST   /api/service/visits                 Accumulate-or-create visit
    POST   /api/service/parties/{id}/spares    Bill spare amount

  Stock:
    GET    /api/stock                          Purchased-minus-sold view
    GET    /api/stock/oversold                 Discrepancy report

ERROR HANDLING:
  Domain errors map onto HTTP status by taxonomy:
  - 409: phone or name conflicts
  - 422: amount or quantity bound violations
  - 404: unknown party or item
  - 400: malformed JSON, bad decimals, bad dates
  - 500: storage failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/trackedge/books/ledger"
	"github.com/trackedge/books/service"
	"github.com/trackedge/books/stock"
)

const dateTimeFormat = time.RFC3339

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds the three ledgers and the ambient dependencies.
type Handler struct {
	Purchase *ledger.Ledger
	Sales    *ledger.Ledger
	Service  *service.Ledger

	log     zerolog.Logger
	metrics *Metrics
}

// NewHandler creates a handler over the three ledgers.
func NewHandler(purchase, sales *ledger.Ledger, svc *service.Ledger, log zerolog.Logger, metrics *Metrics) *Handler {
	return &Handler{
		Purchase: purchase,
		Sales:    sales,
		Service:  svc,
		log:      log,
		metrics:  metrics,
	}
}

// ledgerFor maps the {ledger} path segment onto an engine instance.
func (h *Handler) ledgerFor(name string) *ledger.Ledger {
	switch name {
	case "purchase":
		return h.Purchase
	case "sales":
		return h.Sales
	case "service":
		return h.Service.Ledger
	}
	return nil
}

// withLedger resolves the {ledger} segment or writes a 404.
func (h *Handler) withLedger(w http.ResponseWriter, r *http.Request) (*ledger.Ledger, string, bool) {
	name := chi.URLParam(r, "ledger")
	led := h.ledgerFor(name)
	if led == nil {
		writeError(w, http.StatusNotFound, "Unknown ledger", nil)
		return nil, name, false
	}
	return led, name, true
}

// =============================================================================
// PARTY HANDLERS
// =============================================================================

// CreateParty resolves or creates a party.
// POST /api/{ledger}/parties
func (h *Handler) CreateParty(w http.ResponseWriter, r *http.Request) {
	led, name, ok := h.withLedger(w, r)
	if !ok {
		return
	}

	var req CreatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "name and phone are required", nil)
		return
	}
	total, err := parseAmount(req.Total)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid total_amount", err)
		return
	}
	paid, err := parseAmount(req.AmountPaid)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount_paid", err)
		return
	}

	id, created, err := led.ResolveOrCreateParty(r.Context(), req.Name, req.Place, req.Phone, total, paid)
	h.metrics.observe(name, "create_party", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, ResolveDTO{ID: string(id), Created: created})
}

// GetParty returns a party with its running totals.
// GET /api/{ledger}/parties/{id}
func (h *Handler) GetParty(w http.ResponseWriter, r *http.Request) {
	led, _, ok := h.withLedger(w, r)
	if !ok {
		return
	}

	p, err := led.GetParty(r.Context(), ledger.PartyID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPartyDTO(p))
}

// FindParty is the exact lookup by name+phone or phone alone.
// GET /api/{ledger}/parties?name=&phone=
func (h *Handler) FindParty(w http.ResponseWriter, r *http.Request) {
	led, _, ok := h.withLedger(w, r)
	if !ok {
		return
	}

	name := r.URL.Query().Get("name")
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		writeError(w, http.StatusBadRequest, "phone is required", nil)
		return
	}

	var (
		p   *ledger.Party
		err error
	)
	if name != "" {
		p, err = led.FindParty(r.Context(), name, phone)
	} else {
		p, err = led.PartyByPhone(r.Context(), phone)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPartyDTO(p))
}

// SearchParties is the autocomplete endpoint behind the party pickers.
// GET /api/{ledger}/parties/search?name= or ?phone=
func (h *Handler) SearchParties(w http.ResponseWriter, r *http.Request) {
	led, _, ok := h.withLedger(w, r)
	if !ok {
		return
	}

	var (
		parties []ledger.Party
		err     error
	)
	if name := r.URL.Query().Get("name"); name != "" {
		parties, err = led.SearchByName(r.Context(), name)
	} else if phone := r.URL.Query().Get("phone"); phone != "" {
		parties, err = led.SearchByPhone(r.Context(), phone)
	} else {
		writeError(w, http.StatusBadRequest, "name or phone is required", nil)
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]PartyDTO, len(parties))
	for i := range parties {
		dtos[i] = toPartyDTO(&parties[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpdateContact rewrites a party's phone and place.
// PUT /api/{ledger}/parties/{id}/contact
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	led, name, ok := h.withLedger(w, r)
	if !ok {
		return
	}

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Phone == "" {
		writeError(w, http.StatusBadRequest, "phone is required", nil)
		return
	}

	id := ledger.PartyID(chi.URLParam(r, "id"))
	err := led.UpdatePartyContact(r.Context(), id, req.Phone, req.Place)
	h.metrics.observe(name, "update_contact", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SERVICE DESK HANDLERS
// =============================================================================

// RegisterVisit is the accumulate-or-create submission for service jobs.
// POST /api/service/visits
func (h *Handler) RegisterVisit(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "ledger") != "service" {
		writeError(w, http.StatusNotFound, "Unknown ledger", nil)
		return
	}

	var req VisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "name and phone are required", nil)
		return
	}
	total, err := parseAmount(req.Total)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid total_amount", err)
		return
	}
	paid, err := parseAmount(req.AmountPaid)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount_paid", err)
		return
	}

	res, err := h.Service.RegisterVisit(r.Context(), service.Visit{
		Name:  req.Name,
		Place: req.Place,
		Phone: req.Phone,
		Total: total,
		Paid:  paid,
	})
	h.metrics.observe("service", "register_visit", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusCreated
	if res.Updated {
		status = http.StatusOK
	}
	writeJSON(w, status, VisitDTO{
		ID:              string(res.PartyID),
		Updated:         res.Updated,
		TotalAmount:     res.Total.String(),
		AmountPaid:      res.Paid.String(),
		RemainingAmount: res.Remaining.String(),
		Status:          string(res.Status),
	})
}

// AddSpare bills a spare-part charge onto a service job.
// POST /api/service/parties/{id}/spares
func (h *Handler) AddSpare(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "ledger") != "service" {
		writeError(w, http.StatusNotFound, "Unknown ledger", nil)
		return
	}

	var req SpareAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	id := ledger.PartyID(chi.URLParam(r, "id"))
	err = h.Service.AddSpare(r.Context(), id, amount)
	h.metrics.observe("service", "add_spare", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	p, err := h.Service.GetParty(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPartyDTO(p))
}

// =============================================================================
// ITEM HANDLERS
// =============================================================================

// AddItem appends a line item and rebalances the party.
// POST /api/{ledger}/parties/{id}/items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	led, name, ok := h.withLedger(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	in, err := itemInputFrom(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item", err)
		return
	}

	it, err := led.AddItem(r.Context(), ledger.PartyID(chi.URLParam(r, "id")), in)
	h.metrics.observe(name, "add_item", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemDTO(it, ""))
}

// ListItems returns a party's items, optionally filtered by date.
// GET /api/{ledger}/parties/{id}/items?from=&to=
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	led, _, ok := h.withLedger(w, r)
	if !ok {
		return
	}
	rng, err := rangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	items, err := led.Items(r.Context(), ledger.PartyID(chi.URLParam(r, "id")), rng)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]ItemDTO, len(items))
	for i := range items {
		dtos[i] = toItemDTO(&items[i], "")
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpdateItem edits an item's name and description.
// PUT /api/{ledger}/items/{id}
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	led, name, ok := h.withLedger(w, r)
	if !ok {
		return
	}

	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item id", err)
		return
	}
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	err = led.UpdateItemDetails(r.Context(), itemID, req.Name, req.Description)
	h.metrics.observe(name, "update_item", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteItem removes an item and rebalances the party.
// DELETE /api/{ledger}/items/{id}
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	led, name, ok := h.withLedger(w, r)
	if !ok {
		return
	}

	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item id", err)
		return
	}

	err = led.DeleteItem(r.Context(), itemID)
	h.metrics.observe(name, "delete_item", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReturnItem reverses part of an item's quantity.
// POST /api/{ledger}/items/{id}/return
func (h *Handler) ReturnItem(w http.ResponseWriter, r *http.Request) {
	led, name, ok := h.withLedger(w, r)
	if !ok {
		return
	}

	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item id", err)
		return
	}
	var req ReturnItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	qty, err := parseAmount(req.Qty)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid qty", err)
		return
	}

	it, err := led.ReturnItem(r.Context(), itemID, qty)
	h.metrics.observe(name, "return_item", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(it, ""))
}

// SuggestItems is the item-name autocomplete.
// GET /api/{ledger}/items/suggest?q=
func (h *Handler) SuggestItems(w http.ResponseWriter, r *http.Request) {
	led, _, ok := h.withLedger(w, r)
	if !ok {
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required", nil)
		return
	}
	suggestions, err := led.SuggestItems(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]SuggestionDTO, len(suggestions))
	for i, s := range suggestions {
		dtos[i] = SuggestionDTO{Name: s.Name, Price: s.Price.String(), Description: s.Description}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// AddPayment records a payment entry with full control.
// POST /api/{ledger}/parties/{id}/payments
func (h *Handler) AddPayment(w http.ResponseWriter, r *http.Request) {
	led, name, ok := h.withLedger(w, r)
	if !ok {
		return
	}

	var req AddPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	var date time.Time
	if req.Date != "" {
		if date, err = time.Parse(dateTimeFormat, req.Date); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
	}

	p, err := led.AddPayment(r.Context(), ledger.PartyID(chi.URLParam(r, "id")), ledger.PaymentInput{
		Amount:  amount,
		Type:    ledger.TxType(req.Type),
		Date:    date,
		Remarks: req.Remarks,
	})
	h.metrics.observe(name, "add_payment", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentDTO(p, ""))
}

// RecordPayment is the bounded fast path used by payment screens.
// POST /api/{ledger}/parties/{id}/payments/record
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	led, name, ok := h.withLedger(w, r)
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	rec, err := led.RecordPayment(r.Context(), ledger.PartyID(chi.URLParam(r, "id")), amount)
	h.metrics.observe(name, "record_payment", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReceiptDTO(rec))
}

// AddRefund pays back an overpaid party.
// POST /api/{ledger}/parties/{id}/refunds
func (h *Handler) AddRefund(w http.ResponseWriter, r *http.Request) {
	led, name, ok := h.withLedger(w, r)
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	rec, err := led.AddRefund(r.Context(), ledger.PartyID(chi.URLParam(r, "id")), amount)
	h.metrics.observe(name, "add_refund", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReceiptDTO(rec))
}

// ListPayments returns a party's payment history.
// GET /api/{ledger}/parties/{id}/payments?from=&to=
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	led, _, ok := h.withLedger(w, r)
	if !ok {
		return
	}
	rng, err := rangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	payments, err := led.Payments(r.Context(), ledger.PartyID(chi.URLParam(r, "id")), rng)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]PaymentDTO, len(payments))
	for i := range payments {
		dtos[i] = toPaymentDTO(&payments[i], "")
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ActivityDates returns the calendar dates on which a party has activity.
// GET /api/{ledger}/parties/{id}/activity
func (h *Handler) ActivityDates(w http.ResponseWriter, r *http.Request) {
	led, _, ok := h.withLedger(w, r)
	if !ok {
		return
	}

	dates, err := led.ActivityDates(r.Context(), ledger.PartyID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"dates": dates})
}

// RecentPayments is the cross-party payment feed.
// GET /api/{ledger}/payments/recent?order=oldest&limit=20
func (h *Handler) RecentPayments(w http.ResponseWriter, r *http.Request) {
	led, _, ok := h.withLedger(w, r)
	if !ok {
		return
	}

	order := ledger.OrderRecent
	if r.URL.Query().Get("order") == "oldest" {
		order = ledger.OrderOldest
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	payments, err := led.RecentPayments(r.Context(), order, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]PaymentDTO, len(payments))
	for i := range payments {
		dtos[i] = toPaymentDTO(&payments[i].Payment, payments[i].PartyName)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ItemsReport returns every item in the date range across all parties.
// GET /api/{ledger}/report/items?from=&to=
func (h *Handler) ItemsReport(w http.ResponseWriter, r *http.Request) {
	led, _, ok := h.withLedger(w, r)
	if !ok {
		return
	}
	rng, err := rangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	items, err := led.ItemsInRange(r.Context(), rng)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]ItemDTO, len(items))
	for i := range items {
		dtos[i] = toItemDTO(&items[i].Item, items[i].PartyName)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// STOCK HANDLERS
// =============================================================================

// GetStock returns the purchased-minus-sold projection.
// GET /api/stock
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	view, err := stock.Compute(r.Context(), h.Purchase.Store(), h.Sales.Store())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetOversold returns the lines where more was sold than purchased.
// GET /api/stock/oversold
func (h *Handler) GetOversold(w http.ResponseWriter, r *http.Request) {
	view, err := stock.Compute(r.Context(), h.Purchase.Store(), h.Sales.Store())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lines": view.Oversold()})
}

// =============================================================================
// HELPERS
// =============================================================================

func itemInputFrom(req AddItemRequest) (ledger.ItemInput, error) {
	var in ledger.ItemInput
	var err error
	if in.Qty, err = parseAmount(req.Qty); err != nil {
		return in, err
	}
	if in.Price, err = parseAmount(req.Price); err != nil {
		return in, err
	}
	if in.Amount, err = parseAmount(req.Amount); err != nil {
		return in, err
	}
	if req.Date != "" {
		if in.Date, err = time.Parse(dateTimeFormat, req.Date); err != nil {
			return in, err
		}
	}
	in.Name = req.Name
	in.Description = req.Description
	return in, nil
}

// rangeFromQuery parses optional from/to query params as calendar dates.
func rangeFromQuery(r *http.Request) (ledger.DateRange, error) {
	var rng ledger.DateRange
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return rng, err
		}
		rng.From = t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return rng, err
		}
		rng.To = t
	}
	return rng, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps the ledger error taxonomy onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsConflict(err):
		writeError(w, http.StatusConflict, "Conflict", err)
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrInvalidQuantity):
		writeError(w, http.StatusUnprocessableEntity, "Rejected", err)
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
