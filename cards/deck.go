// cards/deck.go
package cards

import "math/rand"

// deckList 是每副牌的固定组成，共19张
var deckList = []string{
	"young_dragon", "young_dragon", "young_dragon",
	"fire_imp", "fire_imp", "fire_imp",
	"forest_guardian", "forest_guardian",
	"fireball", "fireball", "fireball",
	"healing_light", "healing_light",
	"lightning_bolt", "lightning_bolt", "lightning_bolt",
	"mana_crystal",
	"protective_ward", "protective_ward",
}

// DeckSize 是每副牌的张数
const DeckSize = 19

// NewDeck 生成一副洗好的牌，切片末尾为牌堆顶
func NewDeck() []string {
	deck := make([]string, len(deckList))
	copy(deck, deckList)
	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}
