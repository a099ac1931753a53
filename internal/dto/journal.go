package dto

import (
	"time"

	"github.com/arkastudio/studio_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineRequest is one line item of a new journal entry. Exactly one of
// Debit and Credit must be positive; the service enforces the sign rule
// beyond what binding can express.
type CreateLineRequest struct {
	AccountCode string          `json:"accountCode" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	TaxCode     string          `json:"taxCode"`
}

// CreateEntryRequest defines the payload for building a DRAFT journal entry.
type CreateEntryRequest struct {
	EntryDate   time.Time           `json:"entryDate" binding:"required"`
	Description string              `json:"description" binding:"required"`
	SourceType  domain.SourceType   `json:"sourceType"`
	SourceID    string              `json:"sourceID"`
	DocumentRef string              `json:"documentRef"`
	Lines       []CreateLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateEntryRequest patches a DRAFT entry. Nil fields are left unchanged;
// replacing lines replaces the whole set.
type UpdateEntryRequest struct {
	EntryDate   *time.Time           `json:"entryDate"`
	Description *string              `json:"description"`
	DocumentRef *string              `json:"documentRef"`
	Lines       *[]CreateLineRequest `json:"lines"`
}

// ListEntriesParams narrows the entry listing.
type ListEntriesParams struct {
	DateFrom       *time.Time         `form:"dateFrom" time_format:"2006-01-02"`
	DateTo         *time.Time         `form:"dateTo" time_format:"2006-01-02"`
	AccountPrefix  string             `form:"accountPrefix"`
	Status         domain.EntryStatus `form:"status" binding:"omitempty,oneof=DRAFT POSTED"`
	FiscalPeriodID string             `form:"fiscalPeriodID"`
}

// LineResponse defines the data returned for a line item.
type LineResponse struct {
	LineID      string          `json:"lineID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
	TaxCode     string          `json:"taxCode,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID         string             `json:"entryID"`
	EntryNumber     string             `json:"entryNumber"`
	EntryDate       time.Time          `json:"entryDate"`
	PostingDate     *time.Time         `json:"postingDate,omitempty"`
	Description     string             `json:"description"`
	SourceType      domain.SourceType  `json:"sourceType"`
	SourceID        string             `json:"sourceID,omitempty"`
	DocumentRef     string             `json:"documentRef,omitempty"`
	Status          domain.EntryStatus `json:"status"`
	FiscalPeriodID  string             `json:"fiscalPeriodID"`
	IsReversing     bool               `json:"isReversing"`
	ReversedEntryID *string            `json:"reversedEntryID,omitempty"`
	PostedBy        string             `json:"postedBy,omitempty"`
	Lines           []LineResponse     `json:"lines"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
}

// ToEntryResponse converts a domain.JournalEntry to its response DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	lines := make([]LineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = LineResponse{
			LineID:      l.LineID,
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			TaxCode:     l.TaxCode,
		}
	}
	return EntryResponse{
		EntryID:         e.EntryID,
		EntryNumber:     e.EntryNumber,
		EntryDate:       e.EntryDate,
		PostingDate:     e.PostingDate,
		Description:     e.Description,
		SourceType:      e.SourceType,
		SourceID:        e.SourceID,
		DocumentRef:     e.DocumentRef,
		Status:          e.Status,
		FiscalPeriodID:  e.FiscalPeriodID,
		IsReversing:     e.IsReversing,
		ReversedEntryID: e.ReversedEntryID,
		PostedBy:        e.PostedBy,
		Lines:           lines,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
	}
}

// ToEntryResponses converts a slice of entries.
func ToEntryResponses(entries []domain.JournalEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}
