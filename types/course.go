package types

// CourseRequest is the payload for outline generation.
type CourseRequest struct {
	Goal  string `json:"goal"`
	Model string `json:"model,omitempty"`
}

// WeekDetailsRequest is the payload for week breakdown generation.
type WeekDetailsRequest struct {
	Goal       string   `json:"goal"`
	WeekNumber int      `json:"week_number"`
	WeekTitle  string   `json:"week_title"`
	Concepts   []string `json:"concepts,omitempty"`
	Model      string   `json:"model,omitempty"`
}

// DayDetailsRequest is the payload for day detail generation.
type DayDetailsRequest struct {
	Goal            string `json:"goal"`
	DayTitle        string `json:"day_title"`
	DayNumber       int    `json:"day_number"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	TaskType        string `json:"task_type,omitempty"`
	Model           string `json:"model,omitempty"`
}

// Resource is a single learning resource attached to a day.
type Resource struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Description string `json:"description,omitempty"`
}

// ModelInfo describes an installed model reported by the inference backend.
type ModelInfo struct {
	Name       string `json:"name"`
	Size       int64  `json:"size,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
}
