package domain

// DateLayout is the calendar-date format used by every date field.
const DateLayout = "2006-01-02"

type ActionStatus string

const (
	ActionOpen       ActionStatus = "Open"
	ActionInProgress ActionStatus = "In Progress"
	ActionCompleted  ActionStatus = "Completed"
	ActionCancelled  ActionStatus = "Cancelled"
	ActionPlanning   ActionStatus = "Planning"
	ActionArchived   ActionStatus = "Archived"
)

// ValidActionStatuses is the canonical set of accepted action status strings.
var ValidActionStatuses = map[ActionStatus]bool{
	ActionOpen: true, ActionInProgress: true, ActionCompleted: true,
	ActionCancelled: true, ActionPlanning: true, ActionArchived: true,
}

// IsClosed reports whether the status ends the action's active life.
func (s ActionStatus) IsClosed() bool {
	return s == ActionCompleted || s == ActionArchived
}

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "Planning"
	ProjectOpen       ProjectStatus = "Open"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectCompleted  ProjectStatus = "Completed"
	ProjectCancelled  ProjectStatus = "Cancelled"
	ProjectArchived   ProjectStatus = "Archived"
)

// ValidProjectStatuses is the canonical set of accepted project status strings.
var ValidProjectStatuses = map[ProjectStatus]bool{
	ProjectPlanning: true, ProjectOpen: true, ProjectInProgress: true,
	ProjectCompleted: true, ProjectCancelled: true, ProjectArchived: true,
}

type RecurrenceUnit string

const (
	RecurMonths RecurrenceUnit = "months"
	RecurYears  RecurrenceUnit = "years"
)

type EntityType string

const (
	EntityProject EntityType = "Project"
	EntityAction  EntityType = "Action"
)

type ArchiveReason string

const (
	ArchiveCompleted ArchiveReason = "Completed"
	ArchiveArchived  ArchiveReason = "Archived"
	ArchiveDeleted   ArchiveReason = "Deleted"
)

// Project form defaults.
const (
	DefaultFundingStatus = "Unfunded"
	DefaultProjectType   = "New Asset"
	DefaultBudgetType    = "Single Year"
)

// DefaultActor is recorded as the author of changes when no actor is configured.
const DefaultActor = "current_user"
