package config

import (
	"fmt"
	"os"

	"github.com/Conan-Wen/track-job-hackathon-0302/internal/models"

	"gopkg.in/yaml.v2"
)

// Load reads the configuration from the specified YAML file and returns a Config struct
func Load(filepath string) (*models.Config, error) {
	configFile, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err := yaml.Unmarshal(configFile, &config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(config *models.Config) {
	if config.Source.Type == "" {
		config.Source.Type = "gmail"
	}
	if config.Source.MaxMessages == 0 {
		config.Source.MaxMessages = 5
	}
	if config.Calendar.Timezone == "" {
		config.Calendar.Timezone = "Asia/Tokyo"
	}
	if config.Calendar.UTCOffsetHours == 0 {
		config.Calendar.UTCOffsetHours = 9
	}
	if config.Calendar.Abbreviation == "" {
		config.Calendar.Abbreviation = "JST"
	}
	if config.EventsDir == "" {
		config.EventsDir = "events"
	}
	// API key may live in the environment instead of the config file
	if config.Extraction.APIKey == "" {
		config.Extraction.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

func validate(config *models.Config) error {
	switch config.Source.Type {
	case "gmail", "imap":
	default:
		return fmt.Errorf("unknown source type %q", config.Source.Type)
	}

	if config.Extraction.APIKey == "" {
		return fmt.Errorf("extraction API key is not set (config or OPENAI_API_KEY)")
	}

	return nil
}
