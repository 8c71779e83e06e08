package catalog

import "fxswap/internal/domain"

// ValidatePair checks that a swap pair is complete, made of two different
// currencies and fully supported. Inputs are expected to be normalized.
func (c *Catalog) ValidatePair(source, destination string) error {
	if source == "" {
		return domain.ErrSourceRequired
	}
	if destination == "" {
		return domain.ErrDestinationRequired
	}
	if source == destination {
		return domain.ErrSameCurrencies
	}
	if !c.Contains(source) {
		return domain.ErrSourceUnsupported
	}
	if !c.Contains(destination) {
		return domain.ErrDestUnsupported
	}
	return nil
}
