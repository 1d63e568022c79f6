// Package cards resolves declarative card, hero and weapon definitions into
// hydrated engine values. The engine core never reads files; everything it
// consumes comes through this store.
package cards

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fabrules/fab-engine-go/internal/game"
)

// CardSpec is the on-disk shape of a card definition.
type CardSpec struct {
	Name      string             `yaml:"name"`
	Cost      int                `yaml:"cost"`
	Attack    int                `yaml:"attack"`
	Defense   int                `yaml:"defense"`
	Pitch     int                `yaml:"pitch"`
	Keywords  []string           `yaml:"keywords"`
	Text      string             `yaml:"text"`
	Modifiers game.ModifierTable `yaml:"modifiers"`
}

// HeroSpec is the on-disk shape of a hero definition.
type HeroSpec struct {
	Name      string             `yaml:"name"`
	Ability   string             `yaml:"ability"`
	Modifiers game.ModifierTable `yaml:"modifiers"`
}

// WeaponSpec is the on-disk shape of a weapon definition.
type WeaponSpec struct {
	Name        string   `yaml:"name"`
	Attack      int      `yaml:"attack"`
	Cost        int      `yaml:"cost"`
	OncePerTurn *bool    `yaml:"once_per_turn"`
	Keywords    []string `yaml:"keywords"`
}

// Store holds every resolved definition, keyed by lowercased name.
type Store struct {
	logger  *zap.Logger
	cards   map[string]*CardSpec
	heroes  map[string]*HeroSpec
	weapons map[string]*WeaponSpec
}

// Load reads every .yaml file under dir's cards/, heroes/ and weapons/
// subdirectories. Missing subdirectories are fine; malformed files are not.
func Load(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		logger:  logger,
		cards:   make(map[string]*CardSpec),
		heroes:  make(map[string]*HeroSpec),
		weapons: make(map[string]*WeaponSpec),
	}
	if err := loadDir(filepath.Join(dir, "cards"), func(spec *CardSpec) {
		s.cards[key(spec.Name)] = spec
	}); err != nil {
		return nil, err
	}
	if err := loadDir(filepath.Join(dir, "heroes"), func(spec *HeroSpec) {
		s.heroes[key(spec.Name)] = spec
	}); err != nil {
		return nil, err
	}
	if err := loadDir(filepath.Join(dir, "weapons"), func(spec *WeaponSpec) {
		s.weapons[key(spec.Name)] = spec
	}); err != nil {
		return nil, err
	}
	logger.Info("card store loaded",
		zap.Int("cards", len(s.cards)),
		zap.Int("heroes", len(s.heroes)),
		zap.Int("weapons", len(s.weapons)),
	)
	return s, nil
}

func loadDir[T any](dir string, add func(*T)) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		spec := new(T)
		if err := yaml.Unmarshal(data, spec); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		add(spec)
	}
	return nil
}

func key(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// Card returns a fresh card instance for name. Every call allocates a new
// instance: the engine tracks cards by identity, so two deck copies of the
// same definition must be distinct values.
func (s *Store) Card(name string) (*game.Card, error) {
	spec, ok := s.cards[key(name)]
	if !ok {
		return nil, fmt.Errorf("unknown card %q", name)
	}
	return &game.Card{
		Name:      spec.Name,
		Cost:      spec.Cost,
		Attack:    spec.Attack,
		Defense:   spec.Defense,
		Pitch:     spec.Pitch,
		Keywords:  append([]string(nil), spec.Keywords...),
		Text:      spec.Text,
		Modifiers: spec.Modifiers,
	}, nil
}

// Hero resolves a hero by name. Unknown names yield a generic hero so a deck
// list with a typo'd hero still produces a playable game.
func (s *Store) Hero(name string) game.Hero {
	spec, ok := s.heroes[key(name)]
	if !ok {
		if name == "" {
			name = "Generic Hero"
		}
		return game.Hero{Name: name}
	}
	return game.Hero{Name: spec.Name, Text: spec.Ability, Modifiers: spec.Modifiers}
}

// Weapon resolves a weapon by name, nil when unknown.
func (s *Store) Weapon(name string) *game.Weapon {
	spec, ok := s.weapons[key(name)]
	if !ok {
		return nil
	}
	once := true
	if spec.OncePerTurn != nil {
		once = *spec.OncePerTurn
	}
	return &game.Weapon{
		Name:        spec.Name,
		BaseAttack:  spec.Attack,
		Cost:        spec.Cost,
		OncePerTurn: once,
		Keywords:    append([]string(nil), spec.Keywords...),
	}
}

// ResolveDeck maps a deck list of card names to fresh instances. Duplicate
// names are allowed and produce distinct instances.
func (s *Store) ResolveDeck(names []string) ([]*game.Card, error) {
	deck := make([]*game.Card, 0, len(names))
	for _, name := range names {
		card, err := s.Card(name)
		if err != nil {
			return nil, err
		}
		deck = append(deck, card)
	}
	return deck, nil
}

// PitchColor maps a pitch value to its card color.
func PitchColor(pitch int) string {
	switch pitch {
	case 1:
		return "red"
	case 2:
		return "yellow"
	case 3:
		return "blue"
	default:
		return "unknown"
	}
}
