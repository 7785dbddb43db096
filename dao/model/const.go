// Closed enum types for roles, statuses and document kinds. All of these are
// persisted as strings, so adding a value means revisiting every switch that
// consumes the type.
package model

// Role of a user on the platform.
type Role string

const (
	RoleProjectManager Role = "project_manager"
	RoleTeamMember     Role = "team_member"
	RoleStakeholder    Role = "stakeholder"
	RoleExecutive      Role = "executive"
)

// Roles that may create and manage authoring-gated documents (charters,
// business cases, templates, feasibility studies).
func (r Role) IsManagerial() bool {
	return r == RoleProjectManager || r == RoleExecutive
}

// ProjectStatus is the lifecycle state of a project. Legal movements between
// states are owned by pkg/workflow, not by this type.
type ProjectStatus string

const (
	StatusInitiation ProjectStatus = "initiation"
	StatusPlanning   ProjectStatus = "planning"
	StatusExecution  ProjectStatus = "execution"
	StatusMonitoring ProjectStatus = "monitoring"
	StatusClosure    ProjectStatus = "closure"
	StatusCompleted  ProjectStatus = "completed"
	StatusCancelled  ProjectStatus = "cancelled"
)

// Priority of a project.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// RiskLevel is the five-point ordinal scale used for both probability and
// impact. The numeric mapping lives in pkg/riskscore.
type RiskLevel string

const (
	RiskVeryLow  RiskLevel = "very_low"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// RiskStatus is the lifecycle of a tracked risk entry.
type RiskStatus string

const (
	RiskIdentified RiskStatus = "identified"
	RiskAssessed   RiskStatus = "assessed"
	RiskMitigated  RiskStatus = "mitigated"
	RiskClosed     RiskStatus = "closed"
	RiskOccurred   RiskStatus = "occurred"
)

// DocumentStatus applies to approval-carrying documents (charter, business
// case, feasibility study).
type DocumentStatus string

const (
	DocumentDraft    DocumentStatus = "draft"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

// WBSTaskStatus is the state of a work-breakdown-structure task.
type WBSTaskStatus string

const (
	WBSNotStarted WBSTaskStatus = "not_started"
	WBSInProgress WBSTaskStatus = "in_progress"
	WBSCompleted  WBSTaskStatus = "completed"
	WBSOnHold     WBSTaskStatus = "on_hold"
	WBSCancelled  WBSTaskStatus = "cancelled"
)

// BudgetCategory classifies a budget line item.
type BudgetCategory string

const (
	BudgetLabor       BudgetCategory = "labor"
	BudgetEquipment   BudgetCategory = "equipment"
	BudgetMaterials   BudgetCategory = "materials"
	BudgetTravel      BudgetCategory = "travel"
	BudgetTraining    BudgetCategory = "training"
	BudgetSoftware    BudgetCategory = "software"
	BudgetContingency BudgetCategory = "contingency"
	BudgetOther       BudgetCategory = "other"
)

// CommMethod is the channel of a communication-plan row.
type CommMethod string

const (
	CommEmail     CommMethod = "email"
	CommMeeting   CommMethod = "meeting"
	CommReport    CommMethod = "report"
	CommDashboard CommMethod = "dashboard"
	CommPhone     CommMethod = "phone"
	CommChat      CommMethod = "chat"
)

// CommFrequency is the cadence of a communication-plan row.
type CommFrequency string

const (
	CommDaily     CommFrequency = "daily"
	CommWeekly    CommFrequency = "weekly"
	CommBiweekly  CommFrequency = "biweekly"
	CommMonthly   CommFrequency = "monthly"
	CommQuarterly CommFrequency = "quarterly"
	CommAsNeeded  CommFrequency = "as_needed"
)

// TemplateType keys the reusable template payloads.
type TemplateType string

const (
	TemplateProjectCharter      TemplateType = "project_charter"
	TemplateBusinessCase        TemplateType = "business_case"
	TemplateStakeholderRegister TemplateType = "stakeholder_register"
	TemplateRiskLog             TemplateType = "risk_log"
	TemplateFeasibilityStudy    TemplateType = "feasibility_study"
)

// DocKind names a project-scoped document family for authorization purposes.
type DocKind string

const (
	KindCharter           DocKind = "charter"
	KindBusinessCase      DocKind = "business_case"
	KindStakeholder       DocKind = "stakeholder"
	KindWBSTask           DocKind = "wbs_task"
	KindRisk              DocKind = "risk"
	KindBudgetItem        DocKind = "budget_item"
	KindCommunicationPlan DocKind = "communication_plan"
	KindQualityReq        DocKind = "quality_requirement"
	KindProcurementItem   DocKind = "procurement_item"
	KindTimelineTask      DocKind = "timeline_task"
	KindMilestone         DocKind = "milestone"
	KindFeasibilityStudy  DocKind = "feasibility_study"
	KindTemplate          DocKind = "template"
)
