package deck

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// ErrConfiguration marks a malformed or internally inconsistent deck
// definition. It is fatal and surfaced at startup.
var ErrConfiguration = errors.New("invalid deck configuration")

// SuitGroup names the suits printed in one color,
// e.g. color Red covering Hearts and Diamonds.
type SuitGroup struct {
	Color string   `mapstructure:"color"`
	Suits []string `mapstructure:"suits"`
}

// Spec is the declarative definition of a deck, loaded from a YAML file.
type Spec struct {
	Name  string      `mapstructure:"name"`
	Size  int         `mapstructure:"size"`
	Suits []SuitGroup `mapstructure:"suits"`
	Ranks []string    `mapstructure:"value_list"`
}

// LoadSpec reads and validates the deck definition <name>.yaml from dir.
func LoadSpec(dir, name string) (*Spec, error) {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: reading deck %q: %v", ErrConfiguration, name, err)
	}

	var spec Spec
	if err := v.Unmarshal(&spec); err != nil {
		return nil, fmt.Errorf("%w: parsing deck %q: %v", ErrConfiguration, name, err)
	}

	if err := spec.validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func (s *Spec) validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: missing name", ErrConfiguration)
	}
	if s.Size <= 0 {
		return fmt.Errorf("%w: deck %q: missing or non-positive size", ErrConfiguration, s.Name)
	}
	if len(s.Suits) == 0 {
		return fmt.Errorf("%w: deck %q: no suit groups", ErrConfiguration, s.Name)
	}
	if len(s.Ranks) == 0 {
		return fmt.Errorf("%w: deck %q: empty value list", ErrConfiguration, s.Name)
	}

	suitCount := 0
	for _, group := range s.Suits {
		if len(group.Suits) == 0 {
			return fmt.Errorf("%w: deck %q: suit group %q has no suits", ErrConfiguration, s.Name, group.Color)
		}
		suitCount += len(group.Suits)
	}
	if got := suitCount * len(s.Ranks); got != s.Size {
		return fmt.Errorf("%w: deck %q: declared size %d but composition yields %d cards",
			ErrConfiguration, s.Name, s.Size, got)
	}
	return nil
}
