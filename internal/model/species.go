package model

// Rarity is the weight class of a species, governing spawn odds and reward.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityLegendary Rarity = "Legendary"
)

// Valid reports whether r is one of the known rarity tiers.
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityLegendary:
		return true
	}
	return false
}

// Species is an immutable catalog entry. Loaded once per process and shared
// read-only; everything past XPReward is display metadata.
type Species struct {
	ID          int32  `json:"id"`
	Name        string `json:"name"`
	Element     string `json:"element"`
	Rarity      Rarity `json:"rarity"`
	XPReward    int64  `json:"xp_reward"`
	Description string `json:"description,omitempty"`
	Education   string `json:"education,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}
