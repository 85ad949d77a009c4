// Package species holds the static, read-only catalog of creature species.
// The catalog is configuration, not state: every lookup is against a closed
// set of IDs checked at compile time, so a missing-key failure cannot happen
// at runtime.
package species

// ID identifies a species in the catalog.
type ID string

const (
	Puffer   ID = "puffer"
	Jelly    ID = "jelly"
	Crab     ID = "crab"
	Starfish ID = "starfish"
	Ray      ID = "ray"
)

// Tier is the rarity/acquisition class of a species.
type Tier int

const (
	// Tier1 species are unlockable by default; the starter is Tier1.
	Tier1 Tier = 1
	// Tier2 species are unlocked through encounters or rewards.
	Tier2 Tier = 2
	// Tier3 species come from lootboxes only and never grow. The canonical
	// roster has none left, but legacy saves may still carry their records.
	Tier3 Tier = 3
)

// Size constants for the UI layer. Data only; rendering is not our concern.
const (
	BaseSize        = 100
	AdultMultiplier = 1.5
)

// Info is the per-species configuration entry.
type Info struct {
	Tier Tier
	// GachaWeight is the integer lootbox weight. Roster weights sum to 100.
	GachaWeight int
	// DormantToBaby is the number of tasks needed to leave Dormant.
	DormantToBaby int
	// BabyToAdult is the number of additional tasks needed to reach Adult.
	BabyToAdult int
	// SizeMultiplier scales the base sprite size for the species.
	SizeMultiplier float64
	// Starter marks the species unlocked on first run; it cannot be released.
	Starter bool
}

// catalog is the closed lookup table. Roster order is significant: the
// lootbox cumulative-weight table is built in this order.
var roster = []ID{Puffer, Jelly, Crab, Starfish, Ray}

var catalog = map[ID]Info{
	Puffer:   {Tier: Tier1, GachaWeight: 22, DormantToBaby: 1, BabyToAdult: 2, SizeMultiplier: 1.0, Starter: true},
	Jelly:    {Tier: Tier2, GachaWeight: 22, DormantToBaby: 1, BabyToAdult: 2, SizeMultiplier: 1.0},
	Crab:     {Tier: Tier2, GachaWeight: 22, DormantToBaby: 1, BabyToAdult: 2, SizeMultiplier: 1.0},
	Starfish: {Tier: Tier2, GachaWeight: 22, DormantToBaby: 1, BabyToAdult: 2, SizeMultiplier: 1.0},
	// Ray is the SSR: heavier growth requirements, bigger sprite, rarer draw.
	Ray: {Tier: Tier2, GachaWeight: 12, DormantToBaby: 2, BabyToAdult: 3, SizeMultiplier: 1.5},
}

// aliases maps ids found in legacy save files to canonical catalog ids.
var aliases = map[string]ID{
	"pufferfish": Puffer,
	"jellyfish":  Jelly,
	"hermitcrab": Crab,
	"seastar":    Starfish,
	"star":       Starfish,
	"manta":      Ray,
	"mantaray":   Ray,
}

// Roster returns the catalog ids in draw order.
func Roster() []ID {
	out := make([]ID, len(roster))
	copy(out, roster)
	return out
}

// Get returns the catalog entry for id.
func Get(id ID) (Info, bool) {
	info, ok := catalog[id]
	return info, ok
}

// Starter returns the species unlocked on first run.
func Starter() ID {
	return Puffer
}

// Canonical resolves a raw persisted id, following legacy aliases.
// The second return is false if the id matches nothing in the catalog.
func Canonical(raw string) (ID, bool) {
	if _, ok := catalog[ID(raw)]; ok {
		return ID(raw), true
	}
	if id, ok := aliases[raw]; ok {
		return id, true
	}
	return "", false
}

// TotalWeight returns the sum of all roster gacha weights.
func TotalWeight() int {
	total := 0
	for _, id := range roster {
		total += catalog[id].GachaWeight
	}
	return total
}

// Size returns the sprite size for a species at the given growth multiplier.
func Size(id ID, adult bool) int {
	info, ok := catalog[id]
	if !ok {
		return BaseSize
	}
	size := float64(BaseSize) * info.SizeMultiplier
	if adult {
		size *= AdultMultiplier
	}
	return int(size)
}
