package domain

import "time"

// Category is a top-level life area grouping projects.
type Category struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Icon        string    `json:"icon" db:"icon"`
	Color       string    `json:"color" db:"color"`
	CoverImage  string    `json:"cover_image" db:"cover_image"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CategoryDetails holds the long-form planning fields of a category.
type CategoryDetails struct {
	ID              string  `json:"id" db:"id"`
	CategoryID      string  `json:"category_id" db:"category_id"`
	UltimateVision  *string `json:"ultimate_vision" db:"ultimate_vision"`
	Roles           *string `json:"roles" db:"roles"`
	UltimatePurpose *string `json:"ultimate_purpose" db:"ultimate_purpose"`
	OneYearGoals    *string `json:"one_year_goals" db:"one_year_goals"`
	NinetyDayGoals  *string `json:"ninety_day_goals" db:"ninety_day_goals"`
}

// Project belongs to a category. The *Actions counters are read-only
// fields computed by the v_projects_stats view.
type Project struct {
	ID               string     `json:"id" db:"id"`
	UserID           string     `json:"user_id" db:"user_id"`
	CategoryID       string     `json:"category_id" db:"category_id"`
	Name             string     `json:"name" db:"name"`
	UltimateResult   string     `json:"ultimate_result" db:"ultimate_result"`
	UltimatePurpose  string     `json:"ultimate_purpose" db:"ultimate_purpose"`
	Description      string     `json:"description" db:"description"`
	CoverImage       string     `json:"cover_image" db:"cover_image"`
	StartDate        *time.Time `json:"start_date" db:"start_date"`
	EndDate          *time.Time `json:"end_date" db:"end_date"`
	IsStarred        bool       `json:"is_starred" db:"is_starred"`
	IsCompleted      bool       `json:"is_completed" db:"is_completed"`
	SortOrder        int        `json:"sort_order" db:"sort_order"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	TotalActions     int        `json:"total_actions" db:"total_actions"`
	CompletedActions int        `json:"completed_actions" db:"completed_actions"`
}

// Block is an RPM block: a result, its purpose, and a massive action plan.
type Block struct {
	ID                string     `json:"id" db:"id"`
	UserID            string     `json:"user_id" db:"user_id"`
	CategoryID        *string    `json:"category_id" db:"category_id"`
	ProjectID         *string    `json:"project_id" db:"project_id"`
	ResultTitle       string     `json:"result_title" db:"result_title"`
	ResultDescription string     `json:"result_description" db:"result_description"`
	Purpose           string     `json:"purpose" db:"purpose"`
	TargetDate        *time.Time `json:"target_date" db:"target_date"`
	IsCompleted       bool       `json:"is_completed" db:"is_completed"`
	IsInProgress      bool       `json:"is_in_progress" db:"is_in_progress"`
	SortOrder         int        `json:"sort_order" db:"sort_order"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	TotalActions      int        `json:"total_actions" db:"total_actions"`
	CompletedActions  int        `json:"completed_actions" db:"completed_actions"`
	Actions           []*Action  `json:"actions" db:"-"`
}

// Action is a single schedulable task. The trailing name fields are
// read-only joins provided by v_actions_full.
type Action struct {
	ID               string     `json:"id" db:"id"`
	UserID           string     `json:"user_id" db:"user_id"`
	CategoryID       *string    `json:"category_id" db:"category_id"`
	ProjectID        *string    `json:"project_id" db:"project_id"`
	BlockID          *string    `json:"block_id" db:"block_id"`
	LeveragePersonID *string    `json:"leverage_person_id" db:"leverage_person_id"`
	Title            string     `json:"title" db:"title"`
	Notes            string     `json:"notes" db:"notes"`
	DurationHours    int        `json:"duration_hours" db:"duration_hours"`
	DurationMinutes  int        `json:"duration_minutes" db:"duration_minutes"`
	ScheduledDate    *time.Time `json:"scheduled_date" db:"scheduled_date"`
	ScheduledTime    *string    `json:"scheduled_time" db:"scheduled_time"`
	EndDate          *time.Time `json:"end_date" db:"end_date"`
	IsStarred        bool       `json:"is_starred" db:"is_starred"`
	IsThisWeek       bool       `json:"is_this_week" db:"is_this_week"`
	IsCompleted      bool       `json:"is_completed" db:"is_completed"`
	IsCancelled      bool       `json:"is_cancelled" db:"is_cancelled"`
	CompletedAt      *time.Time `json:"completed_at" db:"completed_at"`
	SortOrder        int        `json:"sort_order" db:"sort_order"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	CategoryName     *string    `json:"category_name" db:"category_name"`
	ProjectName      *string    `json:"project_name" db:"project_name"`
	BlockTitle       *string    `json:"block_title" db:"block_title"`
	PersonName       *string    `json:"person_name" db:"person_name"`
}

// KeyResult is a measurable outcome attached to a project.
type KeyResult struct {
	ID           string     `json:"id" db:"id"`
	ProjectID    string     `json:"project_id" db:"project_id"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	TargetValue  *float64   `json:"target_value" db:"target_value"`
	CurrentValue *float64   `json:"current_value" db:"current_value"`
	Unit         string     `json:"unit" db:"unit"`
	TargetDate   *time.Time `json:"target_date" db:"target_date"`
	IsStarred    bool       `json:"is_starred" db:"is_starred"`
	IsCompleted  bool       `json:"is_completed" db:"is_completed"`
	SortOrder    int        `json:"sort_order" db:"sort_order"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// CaptureItem is an unprocessed inbox entry.
type CaptureItem struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	ProjectID   *string   `json:"project_id" db:"project_id"`
	Title       string    `json:"title" db:"title"`
	Notes       string    `json:"notes" db:"notes"`
	IsProcessed bool      `json:"is_processed" db:"is_processed"`
	IsStarred   bool      `json:"is_starred" db:"is_starred"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Person is a contact that actions can be delegated to.
type Person struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Avatar    string    `json:"avatar" db:"avatar"`
	Notes     string    `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// InspirationItem is a reference attachment on a project.
type InspirationItem struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	Title     string    `json:"title" db:"title"`
	URL       string    `json:"url" db:"url"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
