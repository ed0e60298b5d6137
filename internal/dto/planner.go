package dto

// CreateCategoryRequest creates a category; omitted fields get defaults.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	CoverImage  string `json:"cover_image"`
}

// UpdateCategoryRequest replaces the editable category fields.
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	CoverImage  string `json:"cover_image"`
}

// CategoryDetailsRequest upserts the long-form planning fields.
type CategoryDetailsRequest struct {
	UltimateVision  *string `json:"ultimate_vision"`
	Roles           *string `json:"roles"`
	UltimatePurpose *string `json:"ultimate_purpose"`
	OneYearGoals    *string `json:"one_year_goals"`
	NinetyDayGoals  *string `json:"ninety_day_goals"`
}

type CreateProjectRequest struct {
	CategoryID      string  `json:"category_id" binding:"required"`
	Name            string  `json:"name" binding:"required"`
	UltimateResult  string  `json:"ultimate_result"`
	UltimatePurpose string  `json:"ultimate_purpose"`
	Description     string  `json:"description"`
	CoverImage      string  `json:"cover_image"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
}

// ProjectPatch updates a project; nil fields are left unchanged.
type ProjectPatch struct {
	Name            *string `json:"name"`
	UltimateResult  *string `json:"ultimate_result"`
	UltimatePurpose *string `json:"ultimate_purpose"`
	Description     *string `json:"description"`
	CoverImage      *string `json:"cover_image"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
	IsStarred       *bool   `json:"is_starred"`
	IsCompleted     *bool   `json:"is_completed"`
}

type CreateActionRequest struct {
	CategoryID       *string `json:"category_id"`
	ProjectID        *string `json:"project_id"`
	BlockID          *string `json:"block_id"`
	LeveragePersonID *string `json:"leverage_person_id"`
	Title            string  `json:"title" binding:"required"`
	Notes            string  `json:"notes"`
	DurationHours    *int    `json:"duration_hours"`
	DurationMinutes  *int    `json:"duration_minutes"`
	ScheduledDate    *string `json:"scheduled_date"`
	ScheduledTime    *string `json:"scheduled_time"`
	EndDate          *string `json:"end_date"`
	IsStarred        bool    `json:"is_starred"`
	IsThisWeek       bool    `json:"is_this_week"`
}

// ActionPatch is the explicit allow-list of mutable action fields.
type ActionPatch struct {
	CategoryID       *string `json:"category_id"`
	ProjectID        *string `json:"project_id"`
	BlockID          *string `json:"block_id"`
	LeveragePersonID *string `json:"leverage_person_id"`
	Title            *string `json:"title"`
	Notes            *string `json:"notes"`
	DurationHours    *int    `json:"duration_hours"`
	DurationMinutes  *int    `json:"duration_minutes"`
	ScheduledDate    *string `json:"scheduled_date"`
	ScheduledTime    *string `json:"scheduled_time"`
	EndDate          *string `json:"end_date"`
	IsStarred        *bool   `json:"is_starred"`
	IsThisWeek       *bool   `json:"is_this_week"`
	IsCompleted      *bool   `json:"is_completed"`
	IsCancelled      *bool   `json:"is_cancelled"`
	SortOrder        *int    `json:"sort_order"`
}

// Empty reports whether no updatable field is set.
func (p *ActionPatch) Empty() bool {
	return p.CategoryID == nil && p.ProjectID == nil && p.BlockID == nil &&
		p.LeveragePersonID == nil && p.Title == nil && p.Notes == nil &&
		p.DurationHours == nil && p.DurationMinutes == nil &&
		p.ScheduledDate == nil && p.ScheduledTime == nil && p.EndDate == nil &&
		p.IsStarred == nil && p.IsThisWeek == nil && p.IsCompleted == nil &&
		p.IsCancelled == nil && p.SortOrder == nil
}

type CreateBlockRequest struct {
	CategoryID        *string  `json:"category_id"`
	ProjectID         *string  `json:"project_id"`
	ResultTitle       string   `json:"result_title" binding:"required"`
	ResultDescription string   `json:"result_description"`
	Purpose           string   `json:"purpose"`
	TargetDate        *string  `json:"target_date"`
	ActionIDs         []string `json:"action_ids"`
}

type BlockPatch struct {
	ResultTitle       *string `json:"result_title"`
	ResultDescription *string `json:"result_description"`
	Purpose           *string `json:"purpose"`
	TargetDate        *string `json:"target_date"`
	IsCompleted       *bool   `json:"is_completed"`
	IsInProgress      *bool   `json:"is_in_progress"`
}

type CreateKeyResultRequest struct {
	ProjectID   string   `json:"project_id" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	TargetValue *float64 `json:"target_value"`
	Unit        string   `json:"unit"`
	TargetDate  *string  `json:"target_date"`
}

type KeyResultPatch struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	TargetValue  *float64 `json:"target_value"`
	CurrentValue *float64 `json:"current_value"`
	Unit         *string  `json:"unit"`
	TargetDate   *string  `json:"target_date"`
	IsStarred    *bool    `json:"is_starred"`
	IsCompleted  *bool    `json:"is_completed"`
}

// Empty reports whether no updatable field is set.
func (p *KeyResultPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.TargetValue == nil &&
		p.CurrentValue == nil && p.Unit == nil && p.TargetDate == nil &&
		p.IsStarred == nil && p.IsCompleted == nil
}

type CreateCaptureItemRequest struct {
	ProjectID *string `json:"project_id"`
	Title     string  `json:"title" binding:"required"`
	Notes     string  `json:"notes"`
}

type CaptureItemPatch struct {
	Title       *string `json:"title"`
	Notes       *string `json:"notes"`
	IsProcessed *bool   `json:"is_processed"`
	IsStarred   *bool   `json:"is_starred"`
}

type CreatePersonRequest struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Avatar string `json:"avatar"`
	Notes  string `json:"notes"`
}

type PersonPatch struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Avatar *string `json:"avatar"`
	Notes  *string `json:"notes"`
}

// UploadResponse returns the public path of a stored file.
type UploadResponse struct {
	URL string `json:"url"`
}
