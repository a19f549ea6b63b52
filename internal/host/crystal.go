package host

import (
	"fmt"
	"sort"
)

// CrystalTier describes one kind of matter crystal.
type CrystalTier struct {
	Name       string
	DropCount  int
	Durability int
	Hardness   int
}

// crystalTiers lists the known tiers by name.
var crystalTiers = map[string]CrystalTier{
	"gray":  {Name: "gray", DropCount: 1, Durability: 20, Hardness: 0},
	"beige": {Name: "beige", DropCount: 1, Durability: 100, Hardness: 10},
}

// DefaultCrystalTier is used when a crystal names no tier.
const DefaultCrystalTier = "gray"

// LookupCrystalTier returns the tier called name.
func LookupCrystalTier(name string) (CrystalTier, error) {
	if name == "" {
		name = DefaultCrystalTier
	}
	tier, ok := crystalTiers[name]
	if !ok {
		return CrystalTier{}, fmt.Errorf("unknown crystal tier %q (known: %v)", name, CrystalTierNames())
	}
	return tier, nil
}

// CrystalTierNames returns the known tier names in sorted order.
func CrystalTierNames() []string {
	names := make([]string, 0, len(crystalTiers))
	for name := range crystalTiers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Crystal is a static grid obstacle.
type Crystal struct {
	Tier CrystalTier
	Pos  Point
}

// Kind implements Object.
func (c *Crystal) Kind() string {
	return "crystal"
}
