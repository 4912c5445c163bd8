package constants

import "time"

// Session / context keys
const (
	ContextKeyUserID = "user_id"
	SessionName      = "planner_session"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const (
	MinPasswordLength = 8
)

// Deadline buckets, checked tightest first. An item matches exactly one
// bucket per scan.
const (
	BucketOverdue      = "overdue"
	BucketWithin6Hours = "due-6-hours"
	BucketWithin1Day   = "due-1-day"
	BucketWithin3Days  = "due-3-days"
)

// Notification item types
const (
	ItemTypeTask       = "task"
	ItemTypeAssignment = "assignment"
	ItemTypeCourse     = "course"
)

// Notification retention
const (
	// DisplayWindow is how far back the read path lists entries.
	DisplayWindow = 5 * 24 * time.Hour
	// RetentionWindow is the hard expiry for ledger entries.
	RetentionWindow = 30 * 24 * time.Hour
)

// Assignment terminal status
const AssignmentStatusDone = "Done"
