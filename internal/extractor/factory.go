package extractor

import (
	"fmt"
	"sort"
	"sync"

	"claimassist/internal/config"
	"claimassist/internal/port"
)

// ProviderFactory is a function that creates a FieldExtractor from a provider config.
type ProviderFactory func(cfg *config.ExtractorProviderConfig) (port.FieldExtractor, error)

// registry of provider factories, populated by init() in each provider package
// or explicitly via RegisterProvider.
var (
	providersMu sync.RWMutex
	providers   = map[string]ProviderFactory{}
)

// RegisterProvider registers an extraction provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = factory
}

// Providers returns the registered provider names in sorted order.
func Providers() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewExtractor creates a FieldExtractor from a provider config using the registered factory.
func NewExtractor(cfg *config.ExtractorProviderConfig) (port.FieldExtractor, error) {
	providersMu.RLock()
	factory, ok := providers[cfg.Provider]
	providersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown extractor provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewFromConfig builds the configured provider chain. A single provider is
// returned as-is; secondary and tertiary providers wrap it in a FallbackExtractor.
func NewFromConfig(cfg *config.ExtractorConfig) (port.FieldExtractor, error) {
	tiers := []*config.ExtractorProviderConfig{cfg.PrimaryConfig()}
	if sec := cfg.SecondaryConfig(); sec != nil {
		tiers = append(tiers, sec)
	}
	if ter := cfg.TertiaryConfig(); ter != nil {
		tiers = append(tiers, ter)
	}

	extractors := make([]port.FieldExtractor, 0, len(tiers))
	names := make([]string, 0, len(tiers))
	for _, tier := range tiers {
		ext, err := NewExtractor(tier)
		if err != nil {
			return nil, err
		}
		extractors = append(extractors, ext)
		names = append(names, tier.Provider)
	}

	if len(extractors) == 1 {
		return extractors[0], nil
	}
	return NewFallbackExtractor(extractors, names), nil
}
