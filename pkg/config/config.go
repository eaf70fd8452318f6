package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/travigo/journeyplanner/pkg/util"
	"gopkg.in/yaml.v3"

	iso8601 "github.com/senseyeio/duration"
)

type Config struct {
	SupportedCities []string `yaml:"supportedCities" validate:"min=1,dive,required"`

	Store   Store   `yaml:"store"`
	Planner Planner `yaml:"planner"`
}

type Store struct {
	Type             string `yaml:"type" validate:"oneof=sqlite postgres mongodb gtfs"`
	Path             string `yaml:"path"`
	ConnectionString string `yaml:"connectionString"`
	Database         string `yaml:"database"`
}

type Planner struct {
	Timezone string `yaml:"timezone" validate:"required"`

	// Number of candidate stops considered at each end of a route
	CandidateStops int `yaml:"candidateStops" validate:"min=1"`
	// Departures fetched from the boarding stops per route search
	DepartureLimit int `yaml:"departureLimit" validate:"min=1"`

	DefaultDepartureCount int     `yaml:"defaultDepartureCount" validate:"min=1"`
	DefaultRadiusMeters   float64 `yaml:"defaultRadiusMeters" validate:"gte=0"`
	DefaultMaxWalkMeters  float64 `yaml:"defaultMaxWalkMeters" validate:"gte=0"`

	// Meters per second
	WalkingSpeed float64 `yaml:"walkingSpeed" validate:"gt=0"`

	// ISO8601 duration, empty means departures are only bounded by the service day
	SearchHorizon string `yaml:"searchHorizon"`

	MaxCallsScannedPerStop int           `yaml:"maxCallsScannedPerStop" validate:"min=1"`
	Workers                int           `yaml:"workers" validate:"min=1"`
	QueryTimeout           time.Duration `yaml:"queryTimeout" validate:"gte=0"`
	CacheExpiration        time.Duration `yaml:"cacheExpiration" validate:"gte=0"`

	location *time.Location
	horizon  *iso8601.Duration
}

func Default() *Config {
	return &Config{
		SupportedCities: []string{"wroclaw"},
		Store: Store{
			Type: "sqlite",
			Path: "gtfs.sqlite",
		},
		Planner: DefaultPlanner(),
	}
}

func DefaultPlanner() Planner {
	return Planner{
		Timezone:               "UTC",
		CandidateStops:         10,
		DepartureLimit:         50,
		DefaultDepartureCount:  5,
		DefaultRadiusMeters:    1000,
		DefaultMaxWalkMeters:   1000,
		WalkingSpeed:           1.4,
		MaxCallsScannedPerStop: 500,
		Workers:                16,
		QueryTimeout:           5 * time.Second,
		CacheExpiration:        90 * time.Minute,
		location:               time.UTC,
	}
}

// Load reads .env, the optional YAML file named by TRAVIGO_CONFIG and TRAVIGO_* overrides
func Load() (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	cfg := Default()
	env := util.GetEnvironmentVariables()

	if path := env["TRAVIGO_CONFIG"]; path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvironment(env); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnvironment(env map[string]string) error {
	if v := env["TRAVIGO_SUPPORTED_CITIES"]; v != "" {
		c.SupportedCities = util.RemoveDuplicateStrings(strings.Split(v, ","), nil)
	}

	if v := env["TRAVIGO_STORE_TYPE"]; v != "" {
		c.Store.Type = v
	}
	if v := env["TRAVIGO_STORE_PATH"]; v != "" {
		c.Store.Path = v
	}

	switch c.Store.Type {
	case "postgres":
		if v := env["TRAVIGO_POSTGRES_CONNECTION"]; v != "" {
			c.Store.ConnectionString = v
		}
	case "mongodb":
		if v := env["TRAVIGO_MONGODB_CONNECTION"]; v != "" {
			c.Store.ConnectionString = v
		}
		if v := env["TRAVIGO_MONGODB_DATABASE"]; v != "" {
			c.Store.Database = v
		}
	}

	if v := env["TRAVIGO_TIMEZONE"]; v != "" {
		c.Planner.Timezone = v
	}
	if v := env["TRAVIGO_PLANNER_SEARCH_HORIZON"]; v != "" {
		c.Planner.SearchHorizon = v
	}

	ints := map[string]*int{
		"TRAVIGO_PLANNER_CANDIDATE_STOPS": &c.Planner.CandidateStops,
		"TRAVIGO_PLANNER_DEPARTURE_LIMIT": &c.Planner.DepartureLimit,
		"TRAVIGO_PLANNER_WORKERS":         &c.Planner.Workers,
	}
	for key, destination := range ints {
		if v := env[key]; v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %q", key, v)
			}
			*destination = n
		}
	}

	if v := env["TRAVIGO_PLANNER_WALKING_SPEED"]; v != "" {
		speed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TRAVIGO_PLANNER_WALKING_SPEED: %q", v)
		}
		c.Planner.WalkingSpeed = speed
	}

	if v := env["TRAVIGO_PLANNER_QUERY_TIMEOUT"]; v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TRAVIGO_PLANNER_QUERY_TIMEOUT: %q", v)
		}
		c.Planner.QueryTimeout = timeout
	}

	return nil
}

func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	switch c.Store.Type {
	case "sqlite", "gtfs":
		if c.Store.Path == "" {
			return fmt.Errorf("store type %s requires a path", c.Store.Type)
		}
	case "postgres", "mongodb":
		if c.Store.ConnectionString == "" {
			return fmt.Errorf("store type %s requires a connection string", c.Store.Type)
		}
	}

	return c.Planner.resolve()
}

func (c *Config) SupportsCity(city string) bool {
	for _, supported := range c.SupportedCities {
		if strings.EqualFold(strings.TrimSpace(supported), city) {
			return true
		}
	}

	return false
}

func (p *Planner) resolve() error {
	location, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", p.Timezone, err)
	}
	p.location = location

	p.horizon = nil
	if p.SearchHorizon != "" {
		horizon, err := iso8601.ParseISO8601(p.SearchHorizon)
		if err != nil {
			return fmt.Errorf("invalid search horizon %q: %w", p.SearchHorizon, err)
		}
		if horizon == (iso8601.Duration{}) {
			return errors.New("search horizon must be longer than zero")
		}
		p.horizon = &horizon
	}

	return nil
}

// Location is the timezone service days are evaluated in
func (p Planner) Location() *time.Location {
	if p.location != nil {
		return p.location
	}

	if location, err := time.LoadLocation(p.Timezone); err == nil {
		return location
	}

	return time.UTC
}

// HorizonEnd returns the latest departure instant for a search starting at start.
// The second value is false when no horizon is configured.
func (p Planner) HorizonEnd(start time.Time) (time.Time, bool) {
	horizon := p.horizon
	if horizon == nil && p.SearchHorizon != "" {
		if parsed, err := iso8601.ParseISO8601(p.SearchHorizon); err == nil {
			horizon = &parsed
		}
	}

	if horizon == nil {
		return time.Time{}, false
	}

	return horizon.Shift(start), true
}
