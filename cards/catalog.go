// cards/catalog.go
package cards

// Kind 表示卡牌类型
type Kind string

const (
	KindCreature Kind = "creature"
	KindSpell    Kind = "spell"
	KindSupport  Kind = "support"
)

// CardDefinition 是卡牌的静态定义，进程级只读
type CardDefinition struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Kind   Kind   `json:"type"`
	Cost   int    `json:"cost"`
	Attack int    `json:"attack,omitempty"`
	Health int    `json:"health,omitempty"`
	Effect string `json:"effect"`
	Rarity string `json:"rarity"`
	Emoji  string `json:"emoji"`
}

// catalog 是全部卡牌定义，构造一次后不再修改
var catalog = map[string]CardDefinition{
	"young_dragon": {
		ID:     "young_dragon",
		Name:   "Young Dragon",
		Kind:   KindCreature,
		Cost:   3,
		Attack: 2,
		Health: 3,
		Effect: "Flying: Can attack over creatures",
		Rarity: "common",
		Emoji:  "🐲",
	},
	"fire_imp": {
		ID:     "fire_imp",
		Name:   "Fire Imp",
		Kind:   KindCreature,
		Cost:   2,
		Attack: 3,
		Health: 1,
		Effect: "Quick: Can attack immediately",
		Rarity: "common",
		Emoji:  "👺",
	},
	"forest_guardian": {
		ID:     "forest_guardian",
		Name:   "Forest Guardian",
		Kind:   KindCreature,
		Cost:   4,
		Attack: 1,
		Health: 5,
		Effect: "Taunt: Enemy must attack this first",
		Rarity: "common",
		Emoji:  "🌳",
	},
	"fireball": {
		ID:     "fireball",
		Name:   "Fireball",
		Kind:   KindSpell,
		Cost:   2,
		Effect: "Deal 3 damage to any target",
		Rarity: "common",
		Emoji:  "🔥",
	},
	"healing_light": {
		ID:     "healing_light",
		Name:   "Healing Light",
		Kind:   KindSpell,
		Cost:   1,
		Effect: "Restore 4 health to a creature or player",
		Rarity: "common",
		Emoji:  "✨",
	},
	"lightning_bolt": {
		ID:     "lightning_bolt",
		Name:   "Lightning Bolt",
		Kind:   KindSpell,
		Cost:   1,
		Effect: "Deal 2 damage to any target",
		Rarity: "common",
		Emoji:  "⚡",
	},
	"mana_crystal": {
		ID:     "mana_crystal",
		Name:   "Mana Crystal",
		Kind:   KindSupport,
		Cost:   0,
		Effect: "Gain +1 max mana permanently",
		Rarity: "rare",
		Emoji:  "💎",
	},
	"protective_ward": {
		ID:     "protective_ward",
		Name:   "Protective Ward",
		Kind:   KindSupport,
		Cost:   1,
		Effect: "Prevent next 3 damage to your hero",
		Rarity: "uncommon",
		Emoji:  "🛡️",
	},
}

// Lookup 查找卡牌定义
func Lookup(cardID string) (CardDefinition, bool) {
	def, ok := catalog[cardID]
	return def, ok
}

// All returns a copy of the full catalog, keyed by card ID.
func All() map[string]CardDefinition {
	out := make(map[string]CardDefinition, len(catalog))
	for id, def := range catalog {
		out[id] = def
	}
	return out
}

// RarePool 是礼物特殊卡的候选池
var RarePool = []string{"mana_crystal", "protective_ward"}
