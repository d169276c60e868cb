/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

MONEY ENCODING:
  All amounts cross the wire as decimal strings ("150.00"), never floats.
  DTOs carry plain strings so the wire format never depends on the decimal
  library's marshalling configuration.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - ledger/types.go: The domain types these project
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/trackedge/books/ledger"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreatePartyRequest resolves-or-creates a party on the purchase or sales
// ledger. Amounts are decimal strings; empty means zero.
type CreatePartyRequest struct {
	Name       string `json:"name"`
	Place      string `json:"place"`
	Phone      string `json:"phone"`
	Total      string `json:"total_amount,omitempty"`
	AmountPaid string `json:"amount_paid,omitempty"`
}

// VisitRequest is a service-desk submission for the accumulate ledger.
type VisitRequest struct {
	Name       string `json:"name"`
	Place      string `json:"place"`
	Phone      string `json:"phone"`
	Total      string `json:"total_amount"`
	AmountPaid string `json:"amount_paid,omitempty"`
}

// ContactRequest rewrites a party's phone and place.
type ContactRequest struct {
	Phone string `json:"phone"`
	Place string `json:"place"`
}

// AddItemRequest appends a line item to a party.
type AddItemRequest struct {
	Name        string `json:"name"`
	Qty         string `json:"qty"`
	Price       string `json:"price"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount"`
	Date        string `json:"date,omitempty"` // RFC 3339; defaults to now
}

// UpdateItemRequest edits an item's name and description.
type UpdateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ReturnItemRequest reverses part of an item's quantity.
type ReturnItemRequest struct {
	Qty string `json:"qty"`
}

// AddPaymentRequest records a payment entry with full control over
// direction, date, and remarks.
type AddPaymentRequest struct {
	Amount  string `json:"amount"`
	Type    string `json:"type,omitempty"` // debit | credit; defaults per ledger
	Date    string `json:"date,omitempty"`
	Remarks string `json:"remarks,omitempty"`
}

// RecordPaymentRequest is the bounded fast path: amount only, inbound
// direction, capped at the remaining balance.
type RecordPaymentRequest struct {
	Amount string `json:"amount"`
}

// SpareAmountRequest bills a charge straight onto a service job balance.
type SpareAmountRequest struct {
	Amount string `json:"amount"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// PartyDTO is a party row in API responses.
type PartyDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Place           string `json:"place"`
	Phone           string `json:"phone"`
	TotalAmount     string `json:"total_amount"`
	AmountPaid      string `json:"amount_paid"`
	RemainingAmount string `json:"remaining_amount"`
	Status          string `json:"status"`
	Date            string `json:"date"`
}

// ResolveDTO is the result of resolve-or-create / visit submissions.
type ResolveDTO struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
}

// VisitDTO is the result of a service visit submission.
type VisitDTO struct {
	ID              string `json:"id"`
	Updated         bool   `json:"updated"`
	TotalAmount     string `json:"total_amount"`
	AmountPaid      string `json:"amount_paid"`
	RemainingAmount string `json:"remaining_amount"`
	Status          string `json:"status"`
}

// ItemDTO is a line item in API responses.
type ItemDTO struct {
	ID          int64  `json:"id"`
	PartyID     string `json:"party_id"`
	PartyName   string `json:"party_name,omitempty"`
	Name        string `json:"name"`
	Qty         string `json:"qty"`
	Price       string `json:"price"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

// PaymentDTO is a payment entry in API responses.
type PaymentDTO struct {
	ID        int64  `json:"id"`
	PartyID   string `json:"party_id"`
	PartyName string `json:"party_name,omitempty"`
	PaymentID string `json:"payment_id"`
	Date      string `json:"date"`
	Amount    string `json:"amount"`
	Type      string `json:"type"`
	Remarks   string `json:"remarks,omitempty"`
}

// ReceiptDTO is what payment screens render after a payment lands.
type ReceiptDTO struct {
	PaymentID       string `json:"payment_id"`
	AmountPaid      string `json:"amount_paid"`
	RemainingAmount string `json:"remaining_amount"`
	Status          string `json:"status"`
}

// SuggestionDTO is an item-name autocomplete entry.
type SuggestionDTO struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description,omitempty"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toPartyDTO(p *ledger.Party) PartyDTO {
	return PartyDTO{
		ID:              string(p.ID),
		Name:            p.Name,
		Place:           p.Place,
		Phone:           p.Phone,
		TotalAmount:     p.TotalAmount.String(),
		AmountPaid:      p.AmountPaid.String(),
		RemainingAmount: p.RemainingAmount.String(),
		Status:          string(p.Status),
		Date:            p.Date.Format(dateTimeFormat),
	}
}

func toItemDTO(it *ledger.Item, partyName string) ItemDTO {
	return ItemDTO{
		ID:          it.ID,
		PartyID:     string(it.PartyID),
		PartyName:   partyName,
		Name:        it.Name,
		Qty:         it.Qty.String(),
		Price:       it.Price.String(),
		Description: it.Description,
		Amount:      it.Amount.String(),
		Date:        it.Date.Format(dateTimeFormat),
	}
}

func toPaymentDTO(p *ledger.Payment, partyName string) PaymentDTO {
	return PaymentDTO{
		ID:        p.ID,
		PartyID:   string(p.PartyID),
		PartyName: partyName,
		PaymentID: p.PaymentID,
		Date:      p.Date.Format(dateTimeFormat),
		Amount:    p.Amount.String(),
		Type:      string(p.Type),
		Remarks:   p.Remarks,
	}
}

func toReceiptDTO(r *ledger.Receipt) ReceiptDTO {
	return ReceiptDTO{
		PaymentID:       r.PaymentID,
		AmountPaid:      r.Paid.String(),
		RemainingAmount: r.Remaining.String(),
		Status:          string(r.Status),
	}
}

// parseAmount parses a decimal string from a request body. Empty means
// zero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
