package models

import "time"

// Response classifications.
const (
	ClassificationGlobal   = "global"
	ClassificationPersonal = "personal"
)

// CachedResponse is a previously generated answer, found again by keyword overlap.
type CachedResponse struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Keywords       []string  `bson:"keywords" json:"keywords"`
	AnswerText     string    `bson:"answerText" json:"answerText"`
	Classification string    `bson:"classification" json:"classification"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	LastUpdatedAt  time.Time `bson:"lastUpdatedAt" json:"lastUpdatedAt"`
}
