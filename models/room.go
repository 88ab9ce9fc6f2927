package models

import (
	"sort"
	"strings"
	"time"
)

// Room is a bookable room type in the catalog.
type Room struct {
	ID            string    `bson:"id" json:"id"`
	Slug          string    `bson:"slug" json:"slug"`
	Name          string    `bson:"name" json:"name"`
	Description   string    `bson:"description" json:"description"`
	Category      string    `bson:"category" json:"category"`
	PricePerNight Money     `bson:"price_per_night" json:"price_per_night"`
	MaxGuests     int       `bson:"max_guests" json:"max_guests"`
	SizeSqm       int       `bson:"size_sqm,omitempty" json:"size_sqm,omitempty"`
	BedType       string    `bson:"bed_type,omitempty" json:"bed_type,omitempty"`
	Amenities     []string  `bson:"amenities" json:"amenities"`
	Images        []string  `bson:"images" json:"images"`
	IsAvailable   bool      `bson:"is_available" json:"is_available"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// RoomUpdate is a partial update of a room. Nil fields are left untouched.
type RoomUpdate struct {
	Name          *string   `json:"name"`
	Slug          *string   `json:"slug"`
	Description   *string   `json:"description"`
	Category      *string   `json:"category"`
	PricePerNight *Money    `json:"price_per_night"`
	MaxGuests     *int      `json:"max_guests" binding:"omitempty,min=1"`
	SizeSqm       *int      `json:"size_sqm"`
	BedType       *string   `json:"bed_type"`
	Amenities     *[]string `json:"amenities"`
	Images        *[]string `json:"images"`
	IsAvailable   *bool     `json:"is_available"`
}

// Empty reports whether the update sets no field.
func (u RoomUpdate) Empty() bool {
	return u.Name == nil && u.Slug == nil && u.Description == nil && u.Category == nil &&
		u.PricePerNight == nil && u.MaxGuests == nil && u.SizeSqm == nil && u.BedType == nil &&
		u.Amenities == nil && u.Images == nil && u.IsAvailable == nil
}

// Apply copies the set fields onto r.
func (u RoomUpdate) Apply(r *Room) {
	if u.Name != nil {
		r.Name = *u.Name
	}
	if u.Slug != nil {
		r.Slug = *u.Slug
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.Category != nil {
		r.Category = *u.Category
	}
	if u.PricePerNight != nil {
		r.PricePerNight = *u.PricePerNight
	}
	if u.MaxGuests != nil {
		r.MaxGuests = *u.MaxGuests
	}
	if u.SizeSqm != nil {
		r.SizeSqm = *u.SizeSqm
	}
	if u.BedType != nil {
		r.BedType = *u.BedType
	}
	if u.Amenities != nil {
		r.Amenities = *u.Amenities
	}
	if u.Images != nil {
		r.Images = *u.Images
	}
	if u.IsAvailable != nil {
		r.IsAvailable = *u.IsAvailable
	}
}

// RoomFilter narrows a catalog listing.
type RoomFilter struct {
	Category      string
	MinPrice      *Money
	MaxPrice      *Money
	AvailableOnly bool
	Search        string
	Amenities     []string
	SortBy        string
}

// Sort keys accepted by RoomFilter.SortBy.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNameAsc   = "name_asc"
	SortNameDesc  = "name_desc"
)

// Matches reports whether r passes every set criterion of f.
func (f RoomFilter) Matches(r Room) bool {
	if f.Category != "" && !strings.EqualFold(r.Category, f.Category) {
		return false
	}
	if f.MinPrice != nil && r.PricePerNight < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && r.PricePerNight > *f.MaxPrice {
		return false
	}
	if f.AvailableOnly && !r.IsAvailable {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.Name), q) && !strings.Contains(strings.ToLower(r.Description), q) {
			return false
		}
	}
	for _, want := range f.Amenities {
		found := false
		for _, have := range r.Amenities {
			if strings.EqualFold(have, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SortRooms orders rooms in place by key, falling back to price ascending.
func SortRooms(rooms []Room, key string) {
	sort.SliceStable(rooms, func(i, j int) bool {
		a, b := rooms[i], rooms[j]
		switch key {
		case SortPriceDesc:
			return a.PricePerNight > b.PricePerNight
		case SortNameAsc:
			return a.Name < b.Name
		case SortNameDesc:
			return a.Name > b.Name
		default:
			return a.PricePerNight < b.PricePerNight
		}
	})
}
