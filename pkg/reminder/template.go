package reminder

import "fmt"

// Binding associates a reminder type with the template used to render it.
type Binding struct {
	DisplayName string `json:"name"`
	TemplateID  string `json:"template"`
	Type        Type   `json:"-"`
}

// bindings is built once from a literal table and never mutated.
var bindings = map[Type]Binding{
	EmployeeReminder:        {Type: EmployeeReminder, DisplayName: "Employee Reminder", TemplateID: "emails/employee/timesheet-reminder"},
	EmployeeFinalReminder:   {Type: EmployeeFinalReminder, DisplayName: "Employee Final Reminder", TemplateID: "emails/employee/timesheet-final-call"},
	EmployeeMissedDeadline:  {Type: EmployeeMissedDeadline, DisplayName: "Employee Missed Deadline", TemplateID: "emails/employee/timesheet-missed-deadline"},
	ManagerReadyForApproval: {Type: ManagerReadyForApproval, DisplayName: "Manager Ready For Approval", TemplateID: "emails/manager/timesheet-ready-approval"},
	ManagerApprovalOverdue:  {Type: ManagerApprovalOverdue, DisplayName: "Manager Approval Overdue", TemplateID: "emails/manager/timesheet-approval-overdue"},
	ManagerEscalation:       {Type: ManagerEscalation, DisplayName: "Manager Escalation", TemplateID: "emails/manager/timesheet-escalation"},
	AdminEscalation:         {Type: AdminEscalation, DisplayName: "Admin Escalation", TemplateID: "emails/admin/timesheet-admin-escalation"},
	HREscalation:            {Type: HREscalation, DisplayName: "HR Escalation", TemplateID: "emails/hr/timesheet-hr-escalation"},
}

// TemplateFor returns the template identifier bound to t.
func TemplateFor(t Type) (string, error) {
	b, ok := bindings[t]
	if !ok || b.TemplateID == "" {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotConfigured, t)
	}
	return b.TemplateID, nil
}

// BindingFor returns the binding registered under a dispatch code.
func BindingFor(code int) (Binding, error) {
	t, err := Resolve(code)
	if err != nil {
		return Binding{}, err
	}
	b, ok := bindings[t]
	if !ok {
		return Binding{}, fmt.Errorf("%w: %s", ErrTemplateNotConfigured, t)
	}
	return b, nil
}

// Bindings returns all bindings in code order.
func Bindings() []Binding {
	out := make([]Binding, 0, len(bindings))
	for _, t := range Types() {
		if b, ok := bindings[t]; ok {
			out = append(out, b)
		}
	}
	return out
}
