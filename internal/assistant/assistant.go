// Package assistant drafts transactions from free text with a language model.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gastozen-dev/gastozen/internal/ledger"
	"github.com/gastozen-dev/gastozen/internal/model"
)

var (
	// ErrNotConfigured is returned when no API key is available.
	ErrNotConfigured = errors.New("assistant API key is not configured")
	// ErrEmptyInput is returned for blank text.
	ErrEmptyInput = errors.New("nothing to analyze")
	// ErrNoDraft is returned when the model answers without usable content.
	ErrNoDraft = errors.New("assistant returned no draft")
)

// Drafter turns a sentence such as "almuerzo 25mil ayer" into a draft.
type Drafter interface {
	ParseDraft(ctx context.Context, text string, categories []model.Category, accounts []model.Account) (*model.Draft, error)
}

// Suggest asks d for a draft and returns nil on any failure. Failures are
// logged; callers treat nil as "no suggestion" and keep their form as is.
func Suggest(ctx context.Context, d Drafter, log *slog.Logger, text string, categories []model.Category, accounts []model.Account) *model.Draft {
	if log == nil {
		log = slog.Default()
	}
	draft, err := d.ParseDraft(ctx, text, categories, accounts)
	if err != nil {
		log.Error("drafting transaction failed", "error", err)
		return nil
	}
	return draft
}

// draftJSON is the answer format requested from the model. Amount is kept
// raw because models return it as a number or as a string.
type draftJSON struct {
	Description  string          `json:"description"`
	Amount       json.RawMessage `json:"amount"`
	Type         string          `json:"type"`
	CategoryName string          `json:"categoryName"`
	Date         string          `json:"date"`
	AccountName  string          `json:"accountName"`
}

// decodeDraft parses a model answer. Code fences around the JSON are
// tolerated. A non-numeric amount becomes zero and a malformed date becomes
// today.
func decodeDraft(answer string, today time.Time) (*model.Draft, error) {
	s := strings.TrimSpace(answer)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrNoDraft
	}

	var raw draftJSON
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("decoding assistant answer: %w", err)
	}

	d := &model.Draft{
		Description:  strings.TrimSpace(raw.Description),
		Amount:       coerceAmount(raw.Amount),
		Type:         model.TransactionTypeExpense,
		CategoryName: strings.TrimSpace(raw.CategoryName),
		Date:         raw.Date,
		AccountName:  strings.TrimSpace(raw.AccountName),
	}
	if model.TransactionType(strings.ToLower(strings.TrimSpace(raw.Type))) == model.TransactionTypeIncome {
		d.Type = model.TransactionTypeIncome
	}
	if _, err := time.Parse(model.DateLayout, d.Date); err != nil {
		d.Date = today.Format(model.DateLayout)
	}
	return d, nil
}

func coerceAmount(raw json.RawMessage) decimal.Decimal {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d.Abs()
}

// Normalize turns a draft into transaction form values. The category is
// matched case-insensitively by name among categories of the draft's type,
// falling back to the first category of that type; the account is matched by
// name, falling back to the first account.
func Normalize(d model.Draft, categories []model.Category, accounts []model.Account) ledger.NewTransaction {
	n := ledger.NewTransaction{
		Date:        d.Date,
		Description: d.Description,
		Amount:      d.Amount,
		Type:        d.Type,
	}

	for _, c := range categories {
		if c.Type == d.Type && d.CategoryName != "" && strings.EqualFold(c.Name, d.CategoryName) {
			n.CategoryID = c.ID
			break
		}
	}
	if n.CategoryID == "" {
		for _, c := range categories {
			if c.Type == d.Type {
				n.CategoryID = c.ID
				break
			}
		}
	}

	for _, a := range accounts {
		if d.AccountName != "" && strings.EqualFold(a.Name, d.AccountName) {
			n.AccountID = a.ID
			break
		}
	}
	if n.AccountID == "" && len(accounts) > 0 {
		n.AccountID = accounts[0].ID
	}
	return n
}
