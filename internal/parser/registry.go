package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pbi-visuals/templates/internal/apperr"
	"github.com/pbi-visuals/templates/internal/models"
)

// Strategy is one way of turning a raw config string into a visual config.
type Strategy interface {
	// Name returns the unique name of the strategy.
	Name() string
	// Decode parses raw, or returns an error if this strategy cannot.
	Decode(raw string) (models.VisualConfig, error)
}

// Registry holds config decode strategies and tries them in order.
type Registry struct {
	strategies []Strategy
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry returns a registry with the direct and unescape strategies.
func NewRegistry() *Registry {
	return &Registry{
		strategies: []Strategy{
			NewDirectStrategy(),
			NewUnescapeStrategy(),
		},
	}
}

// GetGlobalRegistry returns the singleton registry.
func GetGlobalRegistry() *Registry {
	return globalRegistry
}

// Register appends a strategy, tried after the existing ones.
func (r *Registry) Register(s Strategy) {
	r.strategies = append(r.strategies, s)
}

// Decode tries every strategy in order and returns the first success along
// with the name of the strategy that produced it.
func (r *Registry) Decode(raw string) (models.VisualConfig, string, error) {
	var errs []error
	for _, s := range r.strategies {
		v, err := s.Decode(raw)
		if err == nil {
			return v, s.Name(), nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
	}
	return nil, "", apperr.NewParseError(apperr.CodeConfigUnparsable, "unparsable config string", "", errors.Join(errs...))
}

// DecodeConfig implements models.ConfigDecoder.
func (r *Registry) DecodeConfig(raw string) (models.VisualConfig, error) {
	v, _, err := r.Decode(raw)
	return v, err
}

// GetStrategyByName returns a strategy by its name.
func (r *Registry) GetStrategyByName(name string) (Strategy, error) {
	name = strings.ToLower(name)
	for _, s := range r.strategies {
		if strings.ToLower(s.Name()) == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("strategy not found: %s", name)
}

// DecodeConfig decodes raw with the global registry.
func DecodeConfig(raw string) (models.VisualConfig, error) {
	return globalRegistry.DecodeConfig(raw)
}
