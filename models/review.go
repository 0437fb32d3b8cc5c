package models

import "time"

type Review struct {
	ReviewID      string    `json:"reviewid" bson:"reviewid"`
	MessID        string    `json:"messid" bson:"messid"`
	UserID        string    `json:"userid" bson:"userid"`
	Rating        int       `json:"rating" bson:"rating"`
	FoodRating    int       `json:"foodRating,omitempty" bson:"food_rating,omitempty"`
	HygieneRating int       `json:"hygieneRating,omitempty" bson:"hygiene_rating,omitempty"`
	Comment       string    `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

type Favorite struct {
	UserID    string    `json:"userid" bson:"userid"`
	MessID    string    `json:"messid" bson:"messid"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Index is the payload published on entity-change events. EventID is
// stamped by the emitter so consumers can deduplicate redeliveries.
type Index struct {
	EventID    string `json:"event_id"`
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`
	ItemType   string `json:"item_type"`
}
