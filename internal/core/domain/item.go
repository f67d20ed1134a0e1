package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wear grades an item's condition.
type Wear string

const (
	WearFactoryNew    Wear = "Factory New"
	WearMinimalWear   Wear = "Minimal Wear"
	WearFieldTested   Wear = "Field-Tested"
	WearWellWorn      Wear = "Well-Worn"
	WearBattleScarred Wear = "Battle-Scarred"
)

// Wears lists the accepted wear grades, best first.
var Wears = []Wear{WearFactoryNew, WearMinimalWear, WearFieldTested, WearWellWorn, WearBattleScarred}

// Valid reports whether w is a known wear grade.
func (w Wear) Valid() bool {
	for _, known := range Wears {
		if w == known {
			return true
		}
	}
	return false
}

// Item is a tradable virtual skin. It always has exactly one owner.
type Item struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Wear      Wear      `json:"wear"`
	ImageURL  string    `json:"image_url,omitempty"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnedBy returns true if accountID is the item's owner.
func (i *Item) OwnedBy(accountID uuid.UUID) bool {
	return i.OwnerID == accountID
}

// ItemPatch is a partial update of catalog fields. Nil fields are left unchanged.
type ItemPatch struct {
	Name     *string
	Category *string
	Wear     *Wear
	ImageURL *string
}

// IsEmpty returns true if no field is set.
func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Category == nil && p.Wear == nil && p.ImageURL == nil
}

// Apply copies set fields onto item.
func (p ItemPatch) Apply(item *Item) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Wear != nil {
		item.Wear = *p.Wear
	}
	if p.ImageURL != nil {
		item.ImageURL = *p.ImageURL
	}
}
