package llm

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestParseResponse(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		ok   bool
		full string
		muni string
		post string
		prov string
	}{
		{"clean answer", "Brugge, 8000, West-Vlaanderen", true, "Brugge, 8000, West-Vlaanderen", "Brugge", "8000", "West-Vlaanderen"},
		{"backticked answer", "`Brugge, 8000, West-Vlaanderen`", true, "Brugge, 8000, West-Vlaanderen", "Brugge", "8000", "West-Vlaanderen"},
		{"quoted answer", `"Melle, 9090, Oost-Vlaanderen"`, true, "Melle, 9090, Oost-Vlaanderen", "Melle", "9090", "Oost-Vlaanderen"},
		{"extra segments drop tail", "Brugge, 8000, West-Vlaanderen, Belgium", true, "Brugge, 8000, West-Vlaanderen", "Brugge", "8000", "West-Vlaanderen"},
		{"whitespace noise", "  Brugge , 8000 ,  West-Vlaanderen  ", true, "Brugge, 8000, West-Vlaanderen", "Brugge", "8000", "West-Vlaanderen"},
		{"not found", "Not Found", false, "", "", "", ""},
		{"not found embedded", "Sorry, the address was not found.", false, "", "", "", ""},
		{"too few segments", "Brugge, 8000", false, "", "", "", ""},
		{"empty", "", false, "", "", "", ""},
	}

	for _, tc := range testCases {
		addr, ok := parseResponse("De Halve Maan", tc.raw)
		if ok != tc.ok {
			t.Errorf("%s: expected ok=%v, got %v", tc.name, tc.ok, ok)
			continue
		}
		if !ok {
			continue
		}
		if addr.FullAddress != tc.full {
			t.Errorf("%s: FullAddress expected %q, got %q", tc.name, tc.full, addr.FullAddress)
		}
		if addr.Municipality != tc.muni || addr.Postcode != tc.post || addr.Province != tc.prov {
			t.Errorf("%s: components wrong: %+v", tc.name, addr)
		}
		if addr.BreweryName != "De Halve Maan" {
			t.Errorf("%s: BreweryName not carried through: %q", tc.name, addr.BreweryName)
		}
	}
}

// scriptedProvider returns canned responses in order.
type scriptedProvider struct {
	responses []string
	err       error
	calls     int
}

func (s *scriptedProvider) Chat(ctx context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	resp := s.responses[s.calls%len(s.responses)]
	s.calls++
	return resp, nil
}

func (s *scriptedProvider) Close() {}

func TestLookup(t *testing.T) {
	p := &scriptedProvider{responses: []string{"Brugge, 8000, West-Vlaanderen"}}

	addr, ok := Lookup(context.Background(), p, "De Halve Maan")
	if !ok {
		t.Fatal("Expected a resolved address")
	}
	if addr.Municipality != "Brugge" {
		t.Errorf("Municipality wrong: got %q", addr.Municipality)
	}
}

func TestLookupProviderError(t *testing.T) {
	p := &scriptedProvider{err: fmt.Errorf("connection refused")}

	if _, ok := Lookup(context.Background(), p, "De Halve Maan"); ok {
		t.Error("Expected a provider error to yield ok=false")
	}
}

func TestBuildPromptNamesTheBrewery(t *testing.T) {
	prompt := buildPrompt("De Halve Maan")
	if want := `"De Halve Maan"`; !strings.Contains(prompt, want) {
		t.Errorf("Prompt should quote the brewery name, got:\n%s", prompt)
	}
}
