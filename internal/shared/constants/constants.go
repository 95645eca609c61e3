package constants

// Runtime environments.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Pagination defaults.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Course defaults.
const (
	// DefaultMaxPlays is the per-video play ceiling applied when a video
	// is created without an explicit limit.
	DefaultMaxPlays = 3
)

// Gin context keys set by the auth middleware.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserSID  = "user_sid"
	ContextKeyUserRole = "user_role"
)

// Table names.
const (
	TableUsers        = "users"
	TableSubjects     = "subjects"
	TableCourseCards  = "course_cards"
	TableVideos       = "videos"
	TableUserProgress = "user_progress"
	TablePurchases    = "purchases"
)
