package models

// RecipeEvent is the payload published to Kafka on recipe lifecycle changes.
type RecipeEvent struct {
	EventID   string `json:"event_id"`  // Unique event identifier
	Timestamp int64  `json:"timestamp"` // Unix timestamp
	Action    string `json:"action"`    // created, updated, deleted, image_uploaded
	UserID    int64  `json:"user_id"`   // Owning user
	RecipeID  int64  `json:"recipe_id"` // Affected recipe
	Title     string `json:"title"`     // Recipe title at event time
}
