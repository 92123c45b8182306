// Package llm fills in brewery addresses that the geocoder could not
// resolve, by asking a language model for a structured
// "municipality, postcode, province" answer.
package llm

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"bierdata/internal/config"
	"bierdata/internal/models"
)

var logger = log.New(os.Stdout, "llm: ", log.LstdFlags|log.Lshortfile)

// Provider is one model backend. Chat sends a single user prompt and
// returns the raw completion text.
type Provider interface {
	Chat(ctx context.Context, prompt string) (string, error)
	Close()
}

// NewProvider builds the configured backend.
func NewProvider(ctx context.Context, app config.AppConfig, cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "ollama":
		return newOllamaProvider(app.OllamaHost, cfg.Model), nil
	case "gemini":
		return newGeminiProvider(ctx, app.GeminiAPIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// buildPrompt is deliberately rigid about the output format; smaller
// models drift into commentary without it.
func buildPrompt(breweryName string) string {
	return fmt.Sprintf(`You are a data extraction assistant. Your task is to find the address of a Belgian brewery and then extract ONLY its municipality, postcode, and province.

The input brewery is: %q.

Your output MUST be as short as possible and in the EXACT format: municipality, postcode, province

AVOID AT ALL COSTS:
- your own commentary
- any additional information
- any explanatory notes
- the street names
- street number
- country
- brewery name

Example of correct output:
If you find the address for 'Brouwerij De Halve Maan' is 'Walplein 26, 8000 Brugge, West-Vlaanderen, Belgium', you must return ONLY:
Brugge, 8000, West-Vlaanderen

If you cannot find the municipality, postcode, and province, return the exact string "Not Found".`, breweryName)
}

// Lookup asks the model for one brewery and validates the answer. An
// unusable response returns (zero, false); the batch continues.
func Lookup(ctx context.Context, p Provider, breweryName string) (models.BreweryAddress, bool) {
	raw, err := p.Chat(ctx, buildPrompt(breweryName))
	if err != nil {
		logger.Printf("An error occurred while querying the model for %q: %v", breweryName, err)
		return models.BreweryAddress{}, false
	}

	addr, ok := parseResponse(breweryName, raw)
	if !ok {
		logger.Printf("Model could not produce a structured address for %q, response: %q", breweryName, raw)
		return models.BreweryAddress{}, false
	}
	logger.Printf("Model extracted structured address for %q: %s", breweryName, addr.FullAddress)
	return addr, true
}

// parseResponse validates the model output against the required
// three-part format. Anything that admits failure, is empty, or has
// fewer than three comma segments is rejected.
func parseResponse(breweryName, raw string) (models.BreweryAddress, bool) {
	answer := strings.TrimSpace(raw)
	answer = strings.Trim(answer, "`")
	answer = strings.Trim(answer, `"`)
	answer = strings.TrimSpace(answer)

	if answer == "" || strings.Contains(strings.ToLower(answer), "not found") {
		return models.BreweryAddress{}, false
	}

	parts := strings.Split(answer, ",")
	if len(parts) < 3 {
		return models.BreweryAddress{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return models.BreweryAddress{
		BreweryName:  breweryName,
		FullAddress:  strings.Join(parts[:3], ", "),
		Municipality: parts[0],
		Postcode:     parts[1],
		Province:     parts[2],
	}, true
}
