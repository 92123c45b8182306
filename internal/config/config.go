package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig holds infrastructure config from standard env vars.
// A .env file in the working directory is honored if present.
type AppConfig struct {
	DBPath         string
	ConfigPath     string
	DataDir        string
	OllamaHost     string
	GeminiAPIKey   string
	KaggleUsername string
	KaggleKey      string
}

// PipelineConfig holds all pipeline settings loaded from the YAML file.
type PipelineConfig struct {
	Rankings  RankingsConfig  `yaml:"rankings"`
	Directory DirectoryConfig `yaml:"directory"`
	Datasets  DatasetsConfig  `yaml:"datasets"`
	Cleaning  CleaningConfig  `yaml:"cleaning"`
	Geocode   GeocodeConfig   `yaml:"geocode"`
	LLM       LLMConfig       `yaml:"llm"`
}

// RankingsConfig drives the ranking-table scrape.
type RankingsConfig struct {
	BaseURL   string   `yaml:"base_url"`
	FetchMode string   `yaml:"fetch_mode"` // "http" or "browser"
	Keywords  []string `yaml:"keywords"`
	// CookieSelector names a consent button to click in browser mode.
	CookieSelector string `yaml:"cookie_selector"`
	OutputFile     string `yaml:"output_file"`
}

// DirectoryConfig drives the paginated directory crawl.
type DirectoryConfig struct {
	BaseURL      string   `yaml:"base_url"`
	TableMarker  string   `yaml:"table_marker"` // bgcolor value of the data table
	Keywords     []string `yaml:"keywords"`
	NextPageText string   `yaml:"next_page_text"`
	MaxPages     int      `yaml:"max_pages"` // 0 means no cap
	DelaySeconds float64  `yaml:"delay_seconds"`
	OutputFile   string   `yaml:"output_file"`
}

// DatasetsConfig drives the dataset download pipeline.
type DatasetsConfig struct {
	Refs            []DatasetRef `yaml:"refs"`
	SearchTerms     []string     `yaml:"search_terms"`
	MinQualityScore int          `yaml:"min_quality_score"`
}

// DatasetRef identifies one dataset to fetch. URL, when set, bypasses
// the dataset API and downloads directly.
type DatasetRef struct {
	Ref string `yaml:"ref"`
	URL string `yaml:"url"`
}

// CleaningConfig carries the ordered normalization data. Rule order is
// part of the normalization contract; the lists are applied as given.
type CleaningConfig struct {
	Aliases    []Alias  `yaml:"aliases"`
	Separators []string `yaml:"separators"`
	InputFile  string   `yaml:"input_file"`
}

// Alias maps a match pattern to one canonical brewery spelling.
type Alias struct {
	Pattern   string `yaml:"pattern"`
	Canonical string `yaml:"canonical"`
	// Exact stops all further rules when the pattern matches.
	Exact bool `yaml:"exact"`
}

// GeocodeConfig drives the Nominatim batch.
type GeocodeConfig struct {
	Endpoint     string  `yaml:"endpoint"`
	UserAgent    string  `yaml:"user_agent"`
	Country      string  `yaml:"country"`
	DelaySeconds float64 `yaml:"delay_seconds"`
	InputFile    string  `yaml:"input_file"`
	OutputFile   string  `yaml:"output_file"`
}

// LLMConfig drives the LLM address lookup.
type LLMConfig struct {
	Provider string `yaml:"provider"` // "ollama" or "gemini"
	Model    string `yaml:"model"`
	Limit    int    `yaml:"limit"` // max breweries per run, 0 = all
}

// GetAppConfig reads infrastructure settings from environment variables.
func GetAppConfig() (AppConfig, error) {
	// Best effort; real env vars win over the file either way.
	_ = godotenv.Load()

	cfg := AppConfig{
		DBPath:         os.Getenv("DB_PATH"),
		ConfigPath:     os.Getenv("CONFIG_PATH"),
		DataDir:        os.Getenv("DATA_DIR"),
		OllamaHost:     os.Getenv("OLLAMA_HOST"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		KaggleUsername: os.Getenv("KAGGLE_USERNAME"),
		KaggleKey:      os.Getenv("KAGGLE_KEY"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = "./local-data/bierdata.db"
	}
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = "config.yaml"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.OllamaHost == "" {
		cfg.OllamaHost = "http://localhost:11434"
	}

	return cfg, nil
}

// RawDir returns the directory for raw output of one source, creating it
// if needed.
func (a AppConfig) RawDir(source string) (string, error) {
	dir := filepath.Join(a.DataDir, "raw", source)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return dir, nil
}

// CleanDir returns the directory for cleaned output, creating it if needed.
func (a AppConfig) CleanDir() (string, error) {
	dir := filepath.Join(a.DataDir, "clean")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return dir, nil
}

// LoadPipelineConfig reads the YAML file and fills in defaults for
// anything left unset.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file at '%s': %w", path, err)
	}
	var cfg PipelineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// DefaultPipelineConfig returns the built-in configuration, used when no
// YAML file exists.
func DefaultPipelineConfig() *PipelineConfig {
	cfg := &PipelineConfig{}
	cfg.applyDefaults()
	return cfg
}

func (c *PipelineConfig) applyDefaults() {
	if c.Rankings.BaseURL == "" {
		c.Rankings.BaseURL = "https://www.beeradvocate.com/beer/top-rated/"
	}
	if c.Rankings.FetchMode == "" {
		c.Rankings.FetchMode = "http"
	}
	if len(c.Rankings.Keywords) == 0 {
		c.Rankings.Keywords = []string{"beer", "brewery", "rating", "stout", "ipa"}
	}
	if c.Rankings.OutputFile == "" {
		c.Rankings.OutputFile = "top_250_beers.csv"
	}

	if c.Directory.BaseURL == "" {
		c.Directory.BaseURL = "https://www.belgenbier.be/bieren/bieren.php"
	}
	if c.Directory.TableMarker == "" {
		c.Directory.TableMarker = "#E8E8E8"
	}
	if len(c.Directory.Keywords) == 0 {
		c.Directory.Keywords = []string{"bier", "brouwerij", "uit productie"}
	}
	if c.Directory.NextPageText == "" {
		c.Directory.NextPageText = "Next page"
	}
	if c.Directory.DelaySeconds == 0 {
		c.Directory.DelaySeconds = 1.0
	}
	if c.Directory.OutputFile == "" {
		c.Directory.OutputFile = "belgian_beers_complete.csv"
	}

	if len(c.Datasets.Refs) == 0 {
		c.Datasets.Refs = []DatasetRef{
			{Ref: "abhaysharma38/beer-rating-reviews"},
			{Ref: "rdoume/beerreviews"},
			{Ref: "ruthgn/beer-profile-and-ratings-data-set"},
			{Ref: "stephenpoletto/top-beer-information"},
		}
	}
	if len(c.Datasets.SearchTerms) == 0 {
		c.Datasets.SearchTerms = []string{"beer", "brewery", "brewing"}
	}
	if c.Datasets.MinQualityScore == 0 {
		c.Datasets.MinQualityScore = 40
	}

	if len(c.Cleaning.Aliases) == 0 {
		c.Cleaning.Aliases = []Alias{
			{Pattern: `\bAlken[- ]Maes\b`, Canonical: "Alken-Maes", Exact: true},
			{Pattern: `\b(ab-?inbev|inbev)\b`, Canonical: "AB InBev"},
		}
	}
	if len(c.Cleaning.Separators) == 0 {
		c.Cleaning.Separators = []string{
			`\s*\(?vroeger`,
			`\s*inopdracht van`,
			`\s+in\s+De Proefbrouwerij`,
			`\s+voor`,
			`\s+brewed for`,
			`\s+gebrouwen`,
			`\s+in opdracht van`,
			`\s+bij`,
			`\s+nu`,
			`\s+later`,
			`\s+door`,
		}
	}
	if c.Cleaning.InputFile == "" {
		c.Cleaning.InputFile = "wiki_be_beers_breweries_provinces.csv"
	}

	if c.Geocode.Endpoint == "" {
		c.Geocode.Endpoint = "https://nominatim.openstreetmap.org"
	}
	if c.Geocode.UserAgent == "" {
		c.Geocode.UserAgent = "belgian_brewery_mapper_v2"
	}
	if c.Geocode.Country == "" {
		c.Geocode.Country = "Belgium"
	}
	if c.Geocode.DelaySeconds == 0 {
		c.Geocode.DelaySeconds = 1.0
	}
	if c.Geocode.InputFile == "" {
		c.Geocode.InputFile = "wiki_be_breweries.csv"
	}
	if c.Geocode.OutputFile == "" {
		c.Geocode.OutputFile = "be_brewery_addresses.csv"
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "ollama"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "wizardlm2:7b"
	}
}
