package models

import "time"

// Word statuses. Only StatusNew is ever assigned; the others are accepted
// from storage as-is.
const (
	StatusNew      = "new"
	StatusLearning = "learning"
	StatusMastered = "mastered"
)

// Word represents an English word saved by a profile together with its
// AI-generated annotation
type Word struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	English         string    `json:"english" db:"english"`
	Turkish         string    `json:"turkish" db:"turkish"`
	ExampleSentence string    `json:"example_sentence" db:"example_sentence"`
	ExampleTurkish  string    `json:"example_turkish" db:"example_turkish"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// RecentWord is a word joined with its owner's display fields
type RecentWord struct {
	Word
	Owner Owner `json:"profiles" db:"profiles"`
}

// ValidStatus reports whether s is one of the known word statuses
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusLearning, StatusMastered:
		return true
	}
	return false
}
