package reminder

import "strings"

// Payload is the loosely typed input of a dispatch, usually a decoded JSON object.
type Payload = map[string]any

// Message is a payload shaped for one reminder type and ready for rendering.
type Message interface {
	// Type returns the reminder type the message was shaped for.
	Type() Type
	// Recipient returns the "to" address. It may be blank.
	Recipient() string
	// SubjectOverride returns the payload supplied subject, if any.
	SubjectOverride() string
	// Vars returns the template variables keyed by payload field name.
	Vars() map[string]string
}

// Envelope carries the addressing fields every message shape accepts.
type Envelope struct {
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
}

func (e Envelope) Recipient() string { return e.To }

func (e Envelope) SubjectOverride() string { return strings.TrimSpace(e.Subject) }

// vars seeds a variable map with the envelope fields.
// The subject is only exposed to templates when it carries text.
func (e Envelope) vars(size int) map[string]string {
	m := make(map[string]string, size+2)
	m[fieldTo] = e.To
	if s := e.SubjectOverride(); s != "" {
		m[fieldSubject] = s
	}
	return m
}

// EmployeeReminderMessage is the weekly submission reminder.
type EmployeeReminderMessage struct {
	Envelope
	EmployeeName  string `json:"employeeName"`
	WeekDate      string `json:"weekDate"`
	TimesheetLink string `json:"timesheetLink"`
}

func (EmployeeReminderMessage) Type() Type { return EmployeeReminder }

func (m EmployeeReminderMessage) Vars() map[string]string {
	v := m.vars(3)
	v["employeeName"] = m.EmployeeName
	v["weekDate"] = m.WeekDate
	v["timesheetLink"] = m.TimesheetLink
	return v
}

// EmployeeFinalReminderMessage is the last call before the submission deadline.
type EmployeeFinalReminderMessage struct {
	Envelope
	EmployeeName   string `json:"employeeName"`
	WeekDate       string `json:"weekDate"`
	TimesheetLink  string `json:"timesheetLink"`
	DeadlineTime   string `json:"deadlineTime"`
	SupportContact string `json:"supportContact"`
}

func (EmployeeFinalReminderMessage) Type() Type { return EmployeeFinalReminder }

func (m EmployeeFinalReminderMessage) Vars() map[string]string {
	v := m.vars(5)
	v["employeeName"] = m.EmployeeName
	v["weekDate"] = m.WeekDate
	v["timesheetLink"] = m.TimesheetLink
	v["deadlineTime"] = m.DeadlineTime
	v["supportContact"] = m.SupportContact
	return v
}

// EmployeeMissedDeadlineMessage tells an employee the deadline has passed.
type EmployeeMissedDeadlineMessage struct {
	Envelope
	EmployeeName   string `json:"employeeName"`
	WeekDate       string `json:"weekDate"`
	TimesheetLink  string `json:"timesheetLink"`
	HelpLink       string `json:"helpLink"`
	ITSupportEmail string `json:"itSupportEmail"`
}

func (EmployeeMissedDeadlineMessage) Type() Type { return EmployeeMissedDeadline }

func (m EmployeeMissedDeadlineMessage) Vars() map[string]string {
	v := m.vars(5)
	v["employeeName"] = m.EmployeeName
	v["weekDate"] = m.WeekDate
	v["timesheetLink"] = m.TimesheetLink
	v["helpLink"] = m.HelpLink
	v["itSupportEmail"] = m.ITSupportEmail
	return v
}

// ManagerReadyForApprovalMessage tells a manager the team's timesheets await approval.
type ManagerReadyForApprovalMessage struct {
	Envelope
	ManagerName             string `json:"managerName"`
	TeamName                string `json:"teamName"`
	WeekDate                string `json:"weekDate"`
	ManagerApprovalDeadline string `json:"managerApprovalDeadline"`
	ManagerDashboardLink    string `json:"managerDashboardLink"`
}

func (ManagerReadyForApprovalMessage) Type() Type { return ManagerReadyForApproval }

func (m ManagerReadyForApprovalMessage) Vars() map[string]string {
	v := m.vars(5)
	v["managerName"] = m.ManagerName
	v["teamName"] = m.TeamName
	v["weekDate"] = m.WeekDate
	v["managerApprovalDeadline"] = m.ManagerApprovalDeadline
	v["managerDashboardLink"] = m.ManagerDashboardLink
	return v
}

// ManagerApprovalOverdueMessage tells a manager pending approvals are overdue.
type ManagerApprovalOverdueMessage struct {
	Envelope
	ManagerName          string `json:"managerName"`
	TeamName             string `json:"teamName"`
	WeekDate             string `json:"weekDate"`
	DeadlineDateTime     string `json:"deadlineDateTime"`
	ManagerDashboardLink string `json:"managerDashboardLink"`
}

func (ManagerApprovalOverdueMessage) Type() Type { return ManagerApprovalOverdue }

func (m ManagerApprovalOverdueMessage) Vars() map[string]string {
	v := m.vars(5)
	v["managerName"] = m.ManagerName
	v["teamName"] = m.TeamName
	v["weekDate"] = m.WeekDate
	v["deadlineDateTime"] = m.DeadlineDateTime
	v["managerDashboardLink"] = m.ManagerDashboardLink
	return v
}

// ManagerEscalationMessage escalates an employee's missing timesheet to the manager.
type ManagerEscalationMessage struct {
	Envelope
	ManagerName          string `json:"managerName"`
	EmployeeName         string `json:"employeeName"`
	WeekDate             string `json:"weekDate"`
	ManagerDashboardLink string `json:"managerDashboardLink"`
}

func (ManagerEscalationMessage) Type() Type { return ManagerEscalation }

func (m ManagerEscalationMessage) Vars() map[string]string {
	v := m.vars(4)
	v["managerName"] = m.ManagerName
	v["employeeName"] = m.EmployeeName
	v["weekDate"] = m.WeekDate
	v["managerDashboardLink"] = m.ManagerDashboardLink
	return v
}

// AdminEscalationMessage escalates a missed deadline to an administrator.
type AdminEscalationMessage struct {
	Envelope
	AdminName          string `json:"adminName"`
	EmployeeName       string `json:"employeeName"`
	ManagerName        string `json:"managerName"`
	TeamName           string `json:"teamName"`
	WeekDate           string `json:"weekDate"`
	DeadlineDate       string `json:"deadlineDate"`
	AdminDashboardLink string `json:"adminDashboardLink"`
}

func (AdminEscalationMessage) Type() Type { return AdminEscalation }

func (m AdminEscalationMessage) Vars() map[string]string {
	v := m.vars(7)
	v["adminName"] = m.AdminName
	v["employeeName"] = m.EmployeeName
	v["managerName"] = m.ManagerName
	v["teamName"] = m.TeamName
	v["weekDate"] = m.WeekDate
	v["deadlineDate"] = m.DeadlineDate
	v["adminDashboardLink"] = m.AdminDashboardLink
	return v
}

// HREscalationMessage escalates a missed deadline to HR.
type HREscalationMessage struct {
	Envelope
	HRContactName   string `json:"hrContactName"`
	EmployeeName    string `json:"employeeName"`
	WeekDate        string `json:"weekDate"`
	HRDashboardLink string `json:"hrDashboardLink"`
}

func (HREscalationMessage) Type() Type { return HREscalation }

func (m HREscalationMessage) Vars() map[string]string {
	v := m.vars(4)
	v["hrContactName"] = m.HRContactName
	v["employeeName"] = m.EmployeeName
	v["weekDate"] = m.WeekDate
	v["hrDashboardLink"] = m.HRDashboardLink
	return v
}
