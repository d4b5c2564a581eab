package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/dvloznov/statement-extractor/internal/domain"
	"github.com/dvloznov/statement-extractor/internal/logger"
)

// DefaultModelName is the Gemini model used by the fallback engine.
const DefaultModelName = "gemini-2.5-flash"

// ModelEngine is the extraction engine of last resort: statements from
// institutions without a deterministic engine are handed to Gemini with a
// strict-JSON prompt. The result is mapped onto the same Transaction shape,
// so downstream filtering and export stay format-agnostic.
type ModelEngine struct {
	opts  Options
	model string
}

// NewModelEngine builds the model-assisted engine. An empty model name
// selects DefaultModelName.
func NewModelEngine(opts Options, model string) *ModelEngine {
	if model == "" {
		model = DefaultModelName
	}
	return &ModelEngine{opts: opts, model: model}
}

func (e *ModelEngine) Bank() string { return "Unknown" }

func (e *ModelEngine) Extract(ctx context.Context, doc Document) ([]domain.Transaction, error) {
	log := logger.FromContext(ctx)

	prompt :=
		"You are a financial statement parser for bank statement PDFs.\n\n" +
			"Task:\n" +
			"- Parse ALL transactions in the attached statement.\n" +
			"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
			"- Output a JSON array of objects.\n\n" +
			"Each object must have these fields:\n" +
			"- \"id\": string or null (the statement's reference number, if printed)\n" +
			"- \"date\": string, ISO format \"YYYY-MM-DD\"\n" +
			"- \"valuta_date\": string in ISO format, or null\n" +
			"- \"description\": string\n" +
			"- \"amount\": number (positive for money IN, negative for money OUT) or null if unreadable\n" +
			"- \"currency\": string (e.g. \"EUR\") or null\n" +
			"- \"type\": string, the transaction kind keyword printed on the statement\n" +
			"- \"partner\": string or null (the counterparty name)\n\n" +
			"Rules:\n" +
			"- If the statement has separate debit/credit columns, convert to a single signed \"amount\".\n" +
			"- Never invent transactions; omit lines you cannot read.\n" +
			"Return ONLY valid raw JSON.\n" +
			"Do NOT wrap the response in code fences.\n" +
			"Output must begin with \"[\" and end with \"]\".\n"

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("model engine: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{
					InlineData: &genai.Blob{
						MIMEType: "application/pdf",
						Data:     doc.Data,
					},
				},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("model engine: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("model engine: empty response from model")
	}

	txs, err := e.transform(cleanModelJSON(rawText), doc.Source)
	if err != nil {
		return nil, fmt.Errorf("model engine: %s: %w", doc.Source, err)
	}
	log.Info().Str("source", doc.Source).Int("transactions", len(txs)).Msg("model-assisted extraction done")
	return txs, nil
}

type modelTransaction struct {
	ID          *string  `json:"id"`
	Date        string   `json:"date"`
	ValutaDate  *string  `json:"valuta_date"`
	Description string   `json:"description"`
	Amount      *float64 `json:"amount"`
	Currency    *string  `json:"currency"`
	Type        string   `json:"type"`
	Partner     *string  `json:"partner"`
}

func (e *ModelEngine) transform(clean, source string) ([]domain.Transaction, error) {
	var parsed []modelTransaction
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal model JSON: %w", err)
	}

	txs := make([]domain.Transaction, 0, len(parsed))
	for i, m := range parsed {
		tx := domain.Transaction{
			ID:              strconv.Itoa(i + 1),
			TransactionDate: m.Date,
			Currency:        e.opts.Currency,
			Value:           m.Amount,
			Type:            m.Type,
			Description:     m.Description,
			Owner:           e.opts.Owner,
			Partner:         domain.Party{Name: e.opts.PartnerName, Institute: e.opts.PartnerInstitute},
			Source:          source,
			Bank:            e.Bank(),
		}
		if m.ID != nil && strings.TrimSpace(*m.ID) != "" {
			tx.ID = strings.TrimSpace(*m.ID)
		}
		if m.ValutaDate != nil {
			tx.ValutaDate = *m.ValutaDate
		}
		if m.Currency != nil && *m.Currency != "" {
			tx.Currency = *m.Currency
		}
		if m.Partner != nil && *m.Partner != "" {
			tx.Partner.Name = *m.Partner
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the model
// ignores the raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// If there is still junk around the JSON array, keep only from the
	// first '[' to the last ']'.
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
