package rate

import (
	"fxsync/internal/domain"
	"slices"
	"strings"
)

// Basket is the allow-list of currency codes refreshed against Base.
type Basket struct {
	base    string
	codes   []string            // read only copy, config order
	allowed map[string]struct{} // read only
}

func NewBasket(base string, codes []string) *Basket {
	b := &Basket{base: domain.NormalizeCode(base), allowed: make(map[string]struct{}, len(codes))}
	for _, c := range codes {
		c = domain.NormalizeCode(c)
		if c == "" {
			continue
		}
		if _, dup := b.allowed[c]; dup {
			continue
		}
		b.allowed[c] = struct{}{}
		b.codes = append(b.codes, c)
	}
	return b
}

func (b *Basket) Base() string { return b.base }

func (b *Basket) Codes() []string { return slices.Clone(b.codes) }

// Allows reports whether code is in the allow-list. An empty allow-list allows every code.
func (b *Basket) Allows(code string) bool {
	if len(b.allowed) == 0 {
		return true
	}
	_, ok := b.allowed[code]
	return ok
}

// Filter keeps the allowed codes of the provider feed, plus the base, sorted.
func (b *Basket) Filter(codes []string) []string {
	out := make([]string, 0, len(codes)+1)
	seen := make(map[string]struct{}, len(codes)+1)
	for _, c := range append(slices.Clone(codes), b.base) {
		c = domain.NormalizeCode(c)
		if _, ok := seen[c]; ok || c == "" {
			continue
		}
		if c != b.base && !b.Allows(c) {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Targets picks the known currencies to refresh: allowed, not the base, ordered by name.
func (b *Basket) Targets(known []domain.Currency) []domain.Currency {
	out := make([]domain.Currency, 0, len(known))
	for _, c := range known {
		if c.Name == b.base || !b.Allows(c.Name) {
			continue
		}
		out = append(out, c)
	}
	slices.SortFunc(out, func(x, y domain.Currency) int { return strings.Compare(x.Name, y.Name) })
	return out
}

func validateCurrencyPair(fromID, toID int64) error {
	if fromID <= 0 {
		return domain.NewValidationError("fromCurrencyId", "must be a positive id")
	}
	if toID <= 0 {
		return domain.NewValidationError("toCurrencyId", "must be a positive id")
	}
	if fromID == toID {
		return domain.NewValidationError("toCurrencyId", "must differ from fromCurrencyId")
	}
	return nil
}
