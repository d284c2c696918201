package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/stackshuffle/internal/log"
	"github.com/peterkuimelis/stackshuffle/internal/shuffle"
)

var ErrInvalid = errors.New("invalid config")

// Config represents the top-level YAML structure.
type Config struct {
	Instructions InstructionConfig `yaml:"instructions"`
	Simulator    SimulatorConfig   `yaml:"simulator"`
}

// InstructionConfig controls how instructions are printed.
type InstructionConfig struct {
	StartStep      int            `yaml:"start_step"`
	BlankLineEvery int            `yaml:"blank_line_every"` // 0 disables blank lines
	Templates      TemplateConfig `yaml:"templates"`
}

// TemplateConfig holds the text printed for each instruction. %i and %j are
// replaced with 1-based stack numbers.
type TemplateConfig struct {
	NewStack       string `yaml:"new_stack"`
	AddToStack     string `yaml:"add_to_stack"`
	CombineStacks  string `yaml:"combine_stacks"`
	PullFromBottom string `yaml:"pull_from_bottom"`
	RandomGather   string `yaml:"random_gather"`
}

// SimulatorConfig holds the random walk's operation probabilities.
type SimulatorConfig struct {
	NewStackProbability      float64 `yaml:"new_stack_probability"`
	AddCardProbability       float64 `yaml:"add_card_probability"`
	CombineStacksProbability float64 `yaml:"combine_stacks_probability"`
	PullFrequency            float64 `yaml:"pull_frequency"`
}

// Default returns the stock configuration: terse templates and a blank line
// every three instructions.
func Default() Config {
	return Config{
		Instructions: InstructionConfig{
			StartStep:      1,
			BlankLineEvery: 3,
			Templates: TemplateConfig{
				NewStack:       "NEW",
				AddToStack:     "%i",
				CombineStacks:  "%i OVER %j",
				PullFromBottom: "PULL",
				RandomGather:   "RANDOM GATHER",
			},
		},
		Simulator: SimulatorConfig{
			NewStackProbability:      0.1,
			AddCardProbability:       0.3,
			CombineStacksProbability: 0.02,
			PullFrequency:            0.1,
		},
	}
}

// Load reads a YAML config file and overlays it on the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML config data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Instructions.StartStep < 1 {
		return fmt.Errorf("%w: start_step must be at least 1", ErrInvalid)
	}
	if c.Instructions.BlankLineEvery < 0 {
		return fmt.Errorf("%w: blank_line_every must not be negative", ErrInvalid)
	}

	probs := []struct {
		name string
		p    float64
	}{
		{"new_stack_probability", c.Simulator.NewStackProbability},
		{"add_card_probability", c.Simulator.AddCardProbability},
		{"combine_stacks_probability", c.Simulator.CombineStacksProbability},
	}
	for _, pr := range probs {
		if pr.p < 0 || pr.p > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1], got %g", ErrInvalid, pr.name, pr.p)
		}
	}
	if c.Simulator.PullFrequency < 0 {
		return fmt.Errorf("%w: pull_frequency must not be negative", ErrInvalid)
	}
	return nil
}

// Templates converts the template section for the instruction logger.
func (c Config) Templates() log.Templates {
	t := c.Instructions.Templates
	return log.Templates{
		NewStack:       t.NewStack,
		AddToStack:     t.AddToStack,
		CombineStacks:  t.CombineStacks,
		PullFromBottom: t.PullFromBottom,
		RandomGather:   t.RandomGather,
	}
}

// TextOptions returns the instruction logger settings.
func (c Config) TextOptions() log.TextOptions {
	return log.TextOptions{
		Templates:  c.Templates(),
		StartStep:  c.Instructions.StartStep,
		BreakEvery: c.Instructions.BlankLineEvery,
	}
}

// SimulatorOptions returns simulator options for the given deck and stack counts.
// Rand and Logger are left for the caller.
func (c Config) SimulatorOptions(cards, stacks int) shuffle.SimulatorOptions {
	return shuffle.SimulatorOptions{
		Cards:                    cards,
		Stacks:                   stacks,
		NewStackProbability:      c.Simulator.NewStackProbability,
		AddCardProbability:       c.Simulator.AddCardProbability,
		CombineStacksProbability: c.Simulator.CombineStacksProbability,
		PullFrequency:            c.Simulator.PullFrequency,
	}
}

// Marshal renders the config as YAML, for writing a starter file.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
