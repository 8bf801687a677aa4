package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	Capacity         = 10
	DoorSlots        = 2
	TravelDuration   = 1 * time.Second
	DoorOpenDuration = 2 * time.Second
	BoardDuration    = 500 * time.Millisecond
	CallBuffer       = 256
)

// Environment keys read by ApplyEnv.
const (
	EnvCapacity  = "SHAFTSIM_CAPACITY"
	EnvDoorSlots = "SHAFTSIM_DOOR_SLOTS"
	EnvTravel    = "SHAFTSIM_TRAVEL"
	EnvDoor      = "SHAFTSIM_DOOR"
	EnvBoard     = "SHAFTSIM_BOARD"
)

var ErrInvalid = errors.New("invalid config")

// Shaft describes one car and the floors it can reach.
type Shaft struct {
	Label  string `yaml:"label"`
	Floors []int  `yaml:"floors"`
}

type Config struct {
	Capacity       int           `yaml:"capacity"`
	DoorSlots      int           `yaml:"door_slots"`
	TravelDuration time.Duration `yaml:"travel_duration"`
	DoorDuration   time.Duration `yaml:"door_duration"`
	BoardDuration  time.Duration `yaml:"board_duration"`
	Shafts         []Shaft       `yaml:"shafts"`
}

// Default returns the demo building: four shafts between basement -1 and penthouse 10.
func Default() Config {
	return Config{
		Capacity:       Capacity,
		DoorSlots:      DoorSlots,
		TravelDuration: TravelDuration,
		DoorDuration:   DoorOpenDuration,
		BoardDuration:  BoardDuration,
		Shafts: []Shaft{
			{Label: "A", Floors: span(-1, 9)},
			{Label: "B", Floors: span(0, 10)},
			{Label: "C", Floors: span(-1, 10)},
			{Label: "D", Floors: []int{0, 5, 6, 7, 8, 9, 10}},
		},
	}
}

// Load decodes the YAML file at path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides cfg from envFile (if it exists) and the process environment.
// Process variables take precedence over the file.
func ApplyEnv(cfg *Config, envFile string) error {
	vars := map[string]string{}
	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			vars = fileVars
		case errors.Is(err, os.ErrNotExist):
		default:
			return fmt.Errorf("read env file: %w", err)
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}

	ints := map[string]*int{EnvCapacity: &cfg.Capacity, EnvDoorSlots: &cfg.DoorSlots}
	for key, dst := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q", ErrInvalid, key, v)
			}
			*dst = n
		}
	}
	durations := map[string]*time.Duration{
		EnvTravel: &cfg.TravelDuration,
		EnvDoor:   &cfg.DoorDuration,
		EnvBoard:  &cfg.BoardDuration,
	}
	for key, dst := range durations {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q", ErrInvalid, key, v)
			}
			*dst = d
		}
	}
	return cfg.Validate()
}

func (cfg Config) Validate() error {
	switch {
	case cfg.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalid, cfg.Capacity)
	case cfg.DoorSlots <= 0:
		return fmt.Errorf("%w: door_slots must be positive, got %d", ErrInvalid, cfg.DoorSlots)
	case cfg.TravelDuration < 0 || cfg.DoorDuration < 0 || cfg.BoardDuration < 0:
		return fmt.Errorf("%w: durations must not be negative", ErrInvalid)
	case len(cfg.Shafts) == 0:
		return fmt.Errorf("%w: no shafts", ErrInvalid)
	}
	return nil
}

func span(from, to int) []int {
	floors := make([]int, 0, to-from+1)
	for f := from; f <= to; f++ {
		floors = append(floors, f)
	}
	return floors
}
