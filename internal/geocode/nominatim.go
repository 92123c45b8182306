// Package geocode resolves brewery names to structured addresses using
// the Nominatim search API.
package geocode

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"bierdata/internal/config"
	"bierdata/internal/models"
)

var logger = log.New(os.Stdout, "geocode: ", log.LstdFlags|log.Lshortfile)

// Client queries Nominatim. One request per second at most; the usage
// policy requires both the delay and an identifying User-Agent.
type Client struct {
	http    *resty.Client
	country string
	delay   time.Duration

	sleep func(time.Duration)
}

// NewClient builds a geocoding client from config.
func NewClient(cfg config.GeocodeConfig) *Client {
	c := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetHeader("User-Agent", cfg.UserAgent).
		SetTimeout(30 * time.Second)

	return &Client{
		http:    c,
		country: cfg.Country,
		delay:   time.Duration(cfg.DelaySeconds * float64(time.Second)),
		sleep:   time.Sleep,
	}
}

// nominatimResult mirrors the fields we use from the search response.
type nominatimResult struct {
	DisplayName string  `json:"display_name"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Address     address `json:"address"`
}

type address struct {
	Road        string `json:"road"`
	HouseNumber string `json:"house_number"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	Postcode    string `json:"postcode"`
	State       string `json:"state"`
}

// Lookup geocodes one brewery name. A miss or an API error returns
// (zero, false); the caller marks the item failed and continues with
// the rest of the batch.
func (c *Client) Lookup(breweryName string) (models.BreweryAddress, bool) {
	defer c.sleep(c.delay)

	var results []nominatimResult
	resp, err := c.http.R().
		SetQueryParams(map[string]string{
			"q":              fmt.Sprintf("%s, %s", breweryName, c.country),
			"format":         "jsonv2",
			"addressdetails": "1",
			"limit":          "1",
		}).
		SetResult(&results).
		Get("/search")
	if err != nil {
		logger.Printf("An error occurred while geocoding %q: %v", breweryName, err)
		return models.BreweryAddress{}, false
	}
	if resp.IsError() {
		logger.Printf("Geocoding %q returned status %d", breweryName, resp.StatusCode())
		return models.BreweryAddress{}, false
	}
	if len(results) == 0 {
		logger.Printf("Could not find location for %q", breweryName)
		return models.BreweryAddress{}, false
	}

	logger.Printf("Found location for %q", breweryName)
	return parseResult(breweryName, results[0]), true
}

// parseResult extracts structured address components. Missing keys stay
// empty rather than failing the record.
func parseResult(breweryName string, r nominatimResult) models.BreweryAddress {
	addr := models.BreweryAddress{
		BreweryName: breweryName,
		FullAddress: r.DisplayName,
		Street:      r.Address.Road,
		Number:      r.Address.HouseNumber,
		Postcode:    r.Address.Postcode,
		// Nominatim reports the Belgian province as 'state'.
		Province:  r.Address.State,
		Latitude:  normalizeCoord(r.Lat),
		Longitude: normalizeCoord(r.Lon),
	}

	// Sometimes it's city, town, or even village.
	switch {
	case r.Address.City != "":
		addr.Municipality = r.Address.City
	case r.Address.Town != "":
		addr.Municipality = r.Address.Town
	default:
		addr.Municipality = r.Address.Village
	}
	return addr
}

func normalizeCoord(s string) string {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return ""
	}
	return s
}
