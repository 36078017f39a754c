package config

import (
	"log"
	"strings"

	"github.com/osteria-vecchia/reservations-api/internal/models"
	"github.com/spf13/viper"
)

type Config struct {
	Port                          string            `mapstructure:"PORT"`
	DatabasePath                  string            `mapstructure:"DATABASE_PATH"`
	JWTSecret                     string            `mapstructure:"JWT_SECRET"`
	DiscordBotToken               string            `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string            `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	MaxCapacityPerSlot            int               `mapstructure:"MAX_CAPACITY_PER_SLOT"`
	SlotIntervalMinutes           int               `mapstructure:"SLOT_INTERVAL_MINUTES"`
	WaitlistEnabled               bool              `mapstructure:"WAITLIST_ENABLED"`
	CancellationLeadHours         int               `mapstructure:"CANCELLATION_LEAD_HOURS"`
	Timezone                      string            `mapstructure:"TIMEZONE"`
	OpeningHours                  map[string]string `mapstructure:"OPENING_HOURS"` // weekday -> "HH:MM-HH:MM"
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "reservations.db")
	viper.SetDefault("MAX_CAPACITY_PER_SLOT", 40)
	viper.SetDefault("SLOT_INTERVAL_MINUTES", 15)
	viper.SetDefault("WAITLIST_ENABLED", true)
	viper.SetDefault("CANCELLATION_LEAD_HOURS", 24)
	viper.SetDefault("TIMEZONE", "UTC")
	viper.SetDefault("OPENING_HOURS", map[string]string{
		"tuesday":   "17:00-22:00",
		"wednesday": "17:00-22:00",
		"thursday":  "17:00-22:00",
		"friday":    "12:00-22:30",
		"saturday":  "12:00-22:30",
		"sunday":    "12:00-21:00",
	})

	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")
	viper.BindEnv("WAITLIST_ENABLED")
	viper.BindEnv("TIMEZONE")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}

// DefaultSettings converts the configured defaults into the settings shape
// used by the booking core. These apply until an admin saves a settings
// record.
func (c *Config) DefaultSettings() models.Settings {
	hours := make(map[string]models.OpenHours, len(c.OpeningHours))
	for day, window := range c.OpeningHours {
		start, end, ok := strings.Cut(window, "-")
		if !ok {
			log.Fatalf("invalid OPENING_HOURS entry for %s: %q", day, window)
		}
		hours[strings.ToLower(day)] = models.OpenHours{Start: start, End: end}
	}
	return models.Settings{
		MaxCapacityPerSlot:    c.MaxCapacityPerSlot,
		SlotIntervalMinutes:   c.SlotIntervalMinutes,
		OpeningHours:          hours,
		WaitlistEnabled:       c.WaitlistEnabled,
		CancellationLeadHours: c.CancellationLeadHours,
		Timezone:              c.Timezone,
	}
}
