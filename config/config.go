package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Date is a calendar-date env value in 2006-01-02 form.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalText(text []byte) error {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", string(text))
	}
	d.Time = t
	return nil
}

// RewardTarget maps a reward tag to the point threshold that earns it.
type RewardTarget struct {
	Type   string `json:"type"`
	Points int    `json:"points"`
}

// RewardTable is an ordered threshold table, parsed from env as
// "type:points,type:points,...".
type RewardTable []RewardTarget

func (t *RewardTable) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*t = nil
		return nil
	}
	var table RewardTable
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) != 2 || parts[0] == "" {
			return fmt.Errorf("invalid reward entry %q (want type:points)", entry)
		}
		points, err := strconv.Atoi(parts[1])
		if err != nil || points <= 0 {
			return fmt.Errorf("invalid threshold in reward entry %q", entry)
		}
		table = append(table, RewardTarget{Type: parts[0], Points: points})
	}
	*t = table
	return nil
}

// Config carries everything the service refuses to start without. Season
// window, caps and reward tables are deployment-specific — two observed
// seasons ran with different values for all of them, so nothing here is
// hardcoded in the domain code.
type Config struct {
	DatabaseURL          string `env:"DATABASE_URL,required"`
	Port                 int    `env:"PORT" envDefault:"5300"`
	AllowedOrigins       string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
	CalendarServiceToken string `env:"CALENDAR_SERVICE_TOKEN,required"`

	// Season window. End is configured independently of start+days: a real
	// deployment ran an end date earlier than start+count would imply, so the
	// end must never be derived.
	SeasonStart Date `env:"SEASON_START" envDefault:"2025-12-15"`
	SeasonEnd   Date `env:"SEASON_END" envDefault:"2026-01-14"`
	SeasonDays  int  `env:"SEASON_DAYS" envDefault:"31"`

	FreePointsCap   int `env:"FREE_POINTS_CAP" envDefault:"1015"`
	PaidPointsCap   int `env:"PAID_POINTS_CAP" envDefault:"1001"`
	GlobalPointsCap int `env:"GLOBAL_POINTS_CAP" envDefault:"2026"`

	PersonalRewards RewardTable `env:"PERSONAL_REWARDS" envDefault:"xalava:555,small:1276,merch:1444,medium:1651,dostavka:1888,large:2026"`
	GlobalRewards   RewardTable `env:"GLOBAL_REWARDS" envDefault:"sale:226,xalava:777,certificate:1013"`

	AllowedUploadExts []string `env:"ALLOWED_UPLOAD_EXTS" envSeparator:"," envDefault:"png,jpg,jpeg,gif,pdf,txt,webp,heic,heif"`

	// External collaborators
	AuthServiceURL string `env:"AUTH_SERVICE_URL"`
	SyncServiceURL string `env:"SYNC_SERVICE_URL"`

	// R2 attachment storage (optional — local uploads/ fallback when unset)
	CloudflareAccountID string `env:"CLOUDFLARE_ACCOUNT_ID"`
	R2AccessKeyID       string `env:"R2_ACCESS_KEY_ID"`
	R2AccessKeySecret   string `env:"R2_ACCESS_KEY_SECRET"`
	R2Bucket            string `env:"R2_BUCKET_NAME"`
	CDNBaseURL          string `env:"CDN_BASE_URL"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service must not serve with.
func (c *Config) Validate() error {
	if c.SeasonDays < 1 {
		return fmt.Errorf("SEASON_DAYS must be at least 1, got %d", c.SeasonDays)
	}
	if c.SeasonEnd.Before(c.SeasonStart.Time) {
		return fmt.Errorf("SEASON_END %s is before SEASON_START %s",
			c.SeasonEnd.Format("2006-01-02"), c.SeasonStart.Format("2006-01-02"))
	}
	if c.FreePointsCap <= 0 || c.PaidPointsCap <= 0 || c.GlobalPointsCap <= 0 {
		return fmt.Errorf("point caps must be positive")
	}
	if len(c.PersonalRewards) == 0 || len(c.GlobalRewards) == 0 {
		return fmt.Errorf("reward tables must not be empty")
	}
	for _, table := range []RewardTable{c.PersonalRewards, c.GlobalRewards} {
		if err := checkTable(table); err != nil {
			return err
		}
	}
	if len(c.AllowedUploadExts) == 0 {
		return fmt.Errorf("ALLOWED_UPLOAD_EXTS must not be empty")
	}
	return nil
}

func checkTable(table RewardTable) error {
	seen := make(map[string]bool, len(table))
	prev := 0
	for _, target := range table {
		if seen[target.Type] {
			return fmt.Errorf("duplicate reward type %q in table", target.Type)
		}
		seen[target.Type] = true
		if target.Points <= prev {
			return fmt.Errorf("reward thresholds must be strictly ascending, %q breaks the order", target.Type)
		}
		prev = target.Points
	}
	return nil
}
