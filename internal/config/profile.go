package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"

	"github.com/jimezsa/jobfinder/internal/textutil"
)

const DefaultInteramtSearchURL = "https://interamt.de/koop/app/trefferliste?5"

// Profile is the read-only search profile a run is ranked against.
type Profile struct {
	KeywordsMust       []string `json:"keywordsMust" yaml:"keywordsMust"`
	KeywordsNice       []string `json:"keywordsNice" yaml:"keywordsNice"`
	ExcludeKeywords    []string `json:"excludeKeywords" yaml:"excludeKeywords"`
	LocationsPreferred []string `json:"locationsPreferred" yaml:"locationsPreferred"`
	StrictLocations    []string `json:"strictLocations" yaml:"strictLocations"`
	RemoteOnly         bool     `json:"remoteOnly" yaml:"remoteOnly"`
	MinimumScore       int      `json:"minimumScore" yaml:"minimumScore"`
	MaxResults         int      `json:"maxResults" yaml:"maxResults" validate:"gte=1"`
	LookbackDays       int      `json:"lookbackDays" yaml:"lookbackDays" validate:"gte=0"`
	AllowedSources     []string `json:"allowedSources" yaml:"allowedSources"`
	InteramtSearchURL  string   `json:"interamtSearchUrl" yaml:"interamtSearchUrl" validate:"omitempty,url"`

	// MaxEnrich caps detail-page fetches per source and run.
	MaxEnrich map[string]int `json:"maxEnrich" yaml:"maxEnrich" validate:"dive,gte=0"`
	// SourceCaps limits how many ranked results one source may take before
	// other sources fill the remaining slots.
	SourceCaps          map[string]int `json:"sourceCaps" yaml:"sourceCaps" validate:"dive,gte=1"`
	FetchTimeoutSeconds int            `json:"fetchTimeoutSeconds" yaml:"fetchTimeoutSeconds" validate:"gte=1,lte=300"`
	Concurrency         int            `json:"concurrency" yaml:"concurrency" validate:"gte=1,lte=32"`
}

func DefaultProfile() Profile {
	return Profile{
		KeywordsMust:        []string{},
		KeywordsNice:        []string{},
		ExcludeKeywords:     []string{},
		LocationsPreferred:  []string{},
		StrictLocations:     []string{},
		AllowedSources:      []string{},
		MinimumScore:        envInt("JOBFINDER_MINIMUM_SCORE", 1),
		MaxResults:          envInt("JOBFINDER_MAX_RESULTS", 20),
		LookbackDays:        envInt("JOBFINDER_LOOKBACK_DAYS", 14),
		InteramtSearchURL:   DefaultInteramtSearchURL,
		MaxEnrich:           map[string]int{"gesinesjobtipps": 40, "stepstone": 80},
		SourceCaps:          map[string]int{},
		FetchTimeoutSeconds: 25,
		Concurrency:         1,
	}
}

// ConfigError reports an unusable profile. It is returned before any fetch starts.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config: %s", e.Reason)
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadProfile reads a JSON (json5 tolerant) or YAML profile over the defaults.
// Unknown keys are ignored.
func LoadProfile(path string) (Profile, error) {
	profile := DefaultProfile()

	data, err := os.ReadFile(path)
	if err != nil {
		return profile, &ConfigError{Reason: fmt.Sprintf("read %s", path), Err: err}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return profile, profile.Validate()
	}

	// Per-source maps are decoded on their own and laid over the defaults
	// once keys are normalized.
	defaultEnrich, defaultCaps := profile.MaxEnrich, profile.SourceCaps
	profile.MaxEnrich, profile.SourceCaps = nil, nil

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &profile)
	default:
		err = json5.Unmarshal(data, &profile)
	}
	if err != nil {
		return profile, &ConfigError{Reason: fmt.Sprintf("parse %s: %v", path, err), Err: err}
	}
	profile.MaxEnrich = overlaySourceMap(defaultEnrich, profile.MaxEnrich)
	profile.SourceCaps = overlaySourceMap(defaultCaps, profile.SourceCaps)

	profile.normalize()
	return profile, profile.Validate()
}

func (p *Profile) normalize() {
	if strings.TrimSpace(p.InteramtSearchURL) == "" {
		p.InteramtSearchURL = DefaultInteramtSearchURL
	}
	p.InteramtSearchURL = strings.TrimSpace(p.InteramtSearchURL)
	p.MaxEnrich = overlaySourceMap(nil, p.MaxEnrich)
	p.SourceCaps = overlaySourceMap(nil, p.SourceCaps)
}

// overlaySourceMap returns base overlaid with values, keyed by normalized
// source name. Keys repeated in different case resolve to the last one in
// byte order, so the result does not depend on map iteration.
func overlaySourceMap(base, values map[string]int) map[string]int {
	out := make(map[string]int, len(base)+len(values))
	for _, m := range []map[string]int{base, values} {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if name := textutil.Norm(k); name != "" {
				out[name] = m[k]
			}
		}
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and returns the first violation as a *ConfigError.
func (p Profile) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return &ConfigError{
			Field:  first.Field(),
			Reason: fmt.Sprintf("failed %q (got %v)", first.Tag(), first.Value()),
			Err:    err,
		}
	}
	return &ConfigError{Reason: err.Error(), Err: err}
}

// EnrichLimit returns the detail-fetch cap for source, or fallback when unset.
func (p Profile) EnrichLimit(source string, fallback int) int {
	if v, ok := lookupSource(p.MaxEnrich, source); ok {
		return v
	}
	return fallback
}

// SourceCap returns the ranked-result cap configured for source.
func (p Profile) SourceCap(source string) (int, bool) {
	return lookupSource(p.SourceCaps, source)
}

// lookupSource indexes a per-source map by normalized name. Maps built in
// code without LoadProfile may still carry display-case keys; those are
// matched case-insensitively with the same precedence as overlaySourceMap.
func lookupSource(m map[string]int, source string) (int, bool) {
	name := textutil.Norm(source)
	if v, ok := m[name]; ok {
		return v, true
	}
	v, ok := overlaySourceMap(nil, m)[name]
	return v, ok
}
