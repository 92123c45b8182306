package geocode

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bierdata/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(config.GeocodeConfig{
		Endpoint:  server.URL,
		UserAgent: "test_mapper",
		Country:   "Belgium",
	})
	c.sleep = func(time.Duration) {}
	return c
}

const sampleResponse = `[{
  "display_name": "Brouwerij De Halve Maan, 26, Walplein, Brugge, West-Vlaanderen, 8000, België",
  "lat": "51.2021",
  "lon": "3.2247",
  "address": {
    "road": "Walplein",
    "house_number": "26",
    "city": "Brugge",
    "postcode": "8000",
    "state": "West-Vlaanderen"
  }
}]`

func TestLookup(t *testing.T) {
	var gotQuery, gotUA string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	})

	addr, ok := c.Lookup("De Halve Maan")
	if !ok {
		t.Fatal("Expected a geocoding hit")
	}

	if gotQuery != "De Halve Maan, Belgium" {
		t.Errorf("Query wrong: got %q", gotQuery)
	}
	if gotUA != "test_mapper" {
		t.Errorf("User-Agent wrong: got %q", gotUA)
	}
	if addr.Street != "Walplein" || addr.Number != "26" {
		t.Errorf("Street address wrong: %q %q", addr.Street, addr.Number)
	}
	if addr.Municipality != "Brugge" {
		t.Errorf("Municipality wrong: got %q", addr.Municipality)
	}
	if addr.Province != "West-Vlaanderen" {
		t.Errorf("Province wrong: got %q", addr.Province)
	}
	if addr.Latitude != "51.2021" || addr.Longitude != "3.2247" {
		t.Errorf("Coordinates wrong: %q %q", addr.Latitude, addr.Longitude)
	}
}

func TestLookupMiss(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	if _, ok := c.Lookup("Nonexistent Brewery"); ok {
		t.Error("Expected a miss for an empty result set")
	}
}

func TestLookupServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	if _, ok := c.Lookup("De Halve Maan"); ok {
		t.Error("Expected an error status to yield a miss")
	}
}

func TestParseResultMunicipalityFallback(t *testing.T) {
	testCases := []struct {
		name     string
		addr     address
		expected string
	}{
		{"city wins", address{City: "Gent", Town: "ignored", Village: "ignored"}, "Gent"},
		{"town next", address{Town: "Melle", Village: "ignored"}, "Melle"},
		{"village last", address{Village: "Vlezenbeek"}, "Vlezenbeek"},
		{"nothing", address{}, ""},
	}

	for _, tc := range testCases {
		got := parseResult("x", nominatimResult{Address: tc.addr})
		if got.Municipality != tc.expected {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.expected, got.Municipality)
		}
	}
}

func TestNormalizeCoord(t *testing.T) {
	if got := normalizeCoord("51.2021"); got != "51.2021" {
		t.Errorf("Valid coordinate mangled: %q", got)
	}
	if got := normalizeCoord("not-a-number"); got != "" {
		t.Errorf("Invalid coordinate should clear: %q", got)
	}
	if got := normalizeCoord(""); got != "" {
		t.Errorf("Empty coordinate should stay empty: %q", got)
	}
}
