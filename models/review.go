package models

import (
	"math"
	"time"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a guest's rating of a room. New reviews wait for admin approval
// before they are shown publicly. Author and room names are copied in at creation.
type Review struct {
	ID               string    `bson:"id" json:"id"`
	UserID           string    `bson:"user_id" json:"user_id"`
	RoomID           string    `bson:"room_id" json:"room_id"`
	BookingID        string    `bson:"booking_id,omitempty" json:"booking_id,omitempty"`
	BookingReference string    `bson:"booking_reference,omitempty" json:"booking_reference,omitempty"`
	Rating           int       `bson:"rating" json:"rating"`
	Comment          string    `bson:"comment" json:"comment"`
	IsApproved       bool      `bson:"is_approved" json:"is_approved"`
	AuthorName       string    `bson:"author_name" json:"author_name"`
	RoomName         string    `bson:"room_name" json:"room_name"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}

// ReviewRequest is the input for submitting a review.
type ReviewRequest struct {
	RoomID    string `json:"room_id" binding:"required"`
	BookingID string `json:"booking_id"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=2000"`
}

// ReviewUpdate is an admin edit of a review.
type ReviewUpdate struct {
	Rating     *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment    *string `json:"comment" binding:"omitempty,max=2000"`
	IsApproved *bool   `json:"is_approved"`
}

// Empty reports whether the update sets no field.
func (u ReviewUpdate) Empty() bool {
	return u.Rating == nil && u.Comment == nil && u.IsApproved == nil
}

// Apply copies the set fields onto r.
func (u ReviewUpdate) Apply(r *Review) {
	if u.Rating != nil {
		r.Rating = *u.Rating
	}
	if u.Comment != nil {
		r.Comment = *u.Comment
	}
	if u.IsApproved != nil {
		r.IsApproved = *u.IsApproved
	}
}

// ReviewFilter narrows a review listing. A nil Approved matches both states.
type ReviewFilter struct {
	RoomID   string
	Approved *bool
}

// Matches reports whether r passes every set criterion of f.
func (f ReviewFilter) Matches(r Review) bool {
	if f.RoomID != "" && r.RoomID != f.RoomID {
		return false
	}
	if f.Approved != nil && r.IsApproved != *f.Approved {
		return false
	}
	return true
}

// ReviewStats summarizes the approved ratings of a room.
type ReviewStats struct {
	RoomID        string  `json:"room_id"`
	TotalReviews  int     `json:"total_reviews"`
	AverageRating float64 `json:"average_rating"`
	FiveStar      int     `json:"five_star"`
	FourStar      int     `json:"four_star"`
	ThreeStar     int     `json:"three_star"`
	TwoStar       int     `json:"two_star"`
	OneStar       int     `json:"one_star"`
}

// StatsFor tallies reviews. The average is rounded to two decimals and is 0 without reviews.
func StatsFor(roomID string, reviews []Review) ReviewStats {
	st := ReviewStats{RoomID: roomID}
	sum := 0
	for _, r := range reviews {
		switch r.Rating {
		case 5:
			st.FiveStar++
		case 4:
			st.FourStar++
		case 3:
			st.ThreeStar++
		case 2:
			st.TwoStar++
		case 1:
			st.OneStar++
		default:
			continue
		}
		st.TotalReviews++
		sum += r.Rating
	}
	if st.TotalReviews > 0 {
		st.AverageRating = math.Round(float64(sum)/float64(st.TotalReviews)*100) / 100
	}
	return st
}
