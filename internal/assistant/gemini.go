package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/gastozen-dev/gastozen/internal/config"
	"github.com/gastozen-dev/gastozen/internal/model"
)

const systemInstruction = `Eres un asistente contable para Paraguay.
Analizas frases cortas en las que el usuario describe un gasto o un ingreso y
devuelves SOLAMENTE un objeto JSON con: description, amount (number),
type (income/expense), categoryName, date (YYYY-MM-DD) y accountName.

REGLAS:
- Si el usuario dice "mil", conviértelo a número (ej: 30mil -> 30000).
- categoryName debe ser una de las categorías disponibles cuando sea posible.
- accountName solo si el usuario menciona una de las cuentas disponibles.
- Resuelve fechas relativas ("ayer", "el lunes") a partir de la fecha de hoy.`

// generator is the part of the genai client used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini drafts transactions with the Gemini API.
type Gemini struct {
	gen         generator
	model       string
	temperature float32
	now         func() time.Time
}

// NewGemini creates a Gemini drafter from cfg. It fails with ErrNotConfigured
// when the key environment variable is empty.
func NewGemini(ctx context.Context, cfg config.AssistantConfig) (*Gemini, error) {
	key := cfg.APIKey()
	if key == "" {
		return nil, fmt.Errorf("%w: set %s", ErrNotConfigured, cfg.APIKeyEnv)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return newGemini(client.Models, cfg), nil
}

func newGemini(gen generator, cfg config.AssistantConfig) *Gemini {
	return &Gemini{
		gen:         gen,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		now:         time.Now,
	}
}

// ParseDraft asks the model to read text as a transaction.
func (g *Gemini) ParseDraft(ctx context.Context, text string, categories []model.Category, accounts []model.Account) (*model.Draft, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}
	today := g.now()

	prompt, err := userPrompt(text, categories, accounts, today)
	if err != nil {
		return nil, err
	}
	temperature := g.temperature
	resp, err := g.gen.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
			Temperature:       &temperature,
			ResponseMIMEType:  "application/json",
			ResponseSchema:    draftSchema,
		})
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", g.model, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoDraft
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && !p.Thought {
			b.WriteString(p.Text)
		}
	}
	return decodeDraft(b.String(), today)
}

func userPrompt(text string, categories []model.Category, accounts []model.Account, today time.Time) (string, error) {
	catNames := make([]string, 0, len(categories))
	for _, c := range categories {
		catNames = append(catNames, c.Name)
	}
	acctNames := make([]string, 0, len(accounts))
	for _, a := range accounts {
		acctNames = append(acctNames, a.Name)
	}
	cats, err := json.Marshal(catNames)
	if err != nil {
		return "", err
	}
	accts, err := json.Marshal(acctNames)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Analiza esta frase del usuario: %q\nCategorías disponibles: %s.\nCuentas disponibles: %s.\nFecha de hoy: %s.",
		text, cats, accts, today.Format(model.DateLayout)), nil
}

var draftSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"description":  {Type: genai.TypeString, Description: "Descripción breve de la transacción."},
		"amount":       {Type: genai.TypeNumber, Description: "Monto sin signo."},
		"type":         {Type: genai.TypeString, Enum: []string{"income", "expense"}},
		"categoryName": {Type: genai.TypeString},
		"date":         {Type: genai.TypeString, Description: "Fecha en formato YYYY-MM-DD."},
		"accountName":  {Type: genai.TypeString},
	},
	Required: []string{"description", "amount", "type", "date"},
}
