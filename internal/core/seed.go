package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedData is the static lookup content written to the store at startup.
type SeedData struct {
	Weather map[string]string `yaml:"weather"`
	Facts   []string          `yaml:"facts"`
}

// DefaultSeed returns the built-in weather table and fact list.
func DefaultSeed() SeedData {
	return SeedData{
		Weather: map[string]string{
			"newyork":    "New York: 72°F, Partly Cloudy",
			"boston":     "Boston: 65°F, Sunny",
			"chicago":    "Chicago: 58°F, Rainy",
			"losangeles": "Los Angeles: 80°F, Sunny",
			"miami":      "Miami: 85°F, Humid",
			"seattle":    "Seattle: 55°F, Overcast",
			"denver":     "Denver: 68°F, Clear",
			"austin":     "Austin: 78°F, Hot and Sunny",
		},
		Facts: []string{
			"Honey never spoils. Archaeologists have found 3000-year-old honey in Egyptian tombs that was still edible.",
			"Octopuses have three hearts and blue blood.",
			"A group of flamingos is called a 'flamboyance'.",
			"Bananas are berries, but strawberries aren't.",
			"The Eiffel Tower can be 15 cm taller during the summer due to thermal expansion.",
			"A day on Venus is longer than a year on Venus.",
			"Dolphins have names for each other.",
			"The shortest war in history lasted 38 minutes.",
			"A cloud can weigh more than a million pounds.",
			"There are more stars in the universe than grains of sand on Earth.",
		},
	}
}

// LoadSeedFile reads seed data from a YAML file. An empty path yields DefaultSeed.
func LoadSeedFile(path string) (SeedData, error) {
	if path == "" {
		return DefaultSeed(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedData{}, fmt.Errorf("read seed file: %w", err)
	}

	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return SeedData{}, fmt.Errorf("parse seed file: %w", err)
	}
	return data, nil
}
