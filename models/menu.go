package models

import "time"

type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

func ValidDayOfWeek(d string) bool {
	switch DayOfWeek(d) {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

type MealType string

const (
	Breakfast MealType = "BREAKFAST"
	Lunch     MealType = "LUNCH"
	Dinner    MealType = "DINNER"
)

func ValidMealType(m string) bool {
	switch MealType(m) {
	case Breakfast, Lunch, Dinner:
		return true
	}
	return false
}

// Menu is one meal slot of a mess's weekly menu.
type Menu struct {
	MenuID      string    `json:"menuid" bson:"menuid"`
	MessID      string    `json:"messid" bson:"messid"`
	DayOfWeek   DayOfWeek `json:"dayOfWeek" bson:"day_of_week"`
	MealType    MealType  `json:"mealType" bson:"meal_type"`
	Items       []string  `json:"items" bson:"items"`
	SpecialItem string    `json:"specialItem,omitempty" bson:"special_item,omitempty"`
	IsActive    bool      `json:"isActive" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
