package reminder

import "fmt"

// Type identifies a kind of timesheet reminder.
// The numeric value of each variant is its stable dispatch code.
type Type int

// Reminder types. Codes are part of the external contract and must not be renumbered.
const (
	EmployeeReminder        Type = 1
	EmployeeFinalReminder   Type = 2
	EmployeeMissedDeadline  Type = 3
	ManagerReadyForApproval Type = 4
	ManagerApprovalOverdue  Type = 5
	ManagerEscalation       Type = 6
	AdminEscalation         Type = 7
	HREscalation            Type = 8
)

// Tier is the audience a reminder type is addressed to.
type Tier string

// Audience tiers.
const (
	TierEmployee Tier = "employee"
	TierManager  Tier = "manager"
	TierAdmin    Tier = "admin"
	TierHR       Tier = "hr"
)

type typeInfo struct {
	tag  string
	tier Tier
}

// types is indexed by code; index 0 is unused.
var types = [...]typeInfo{
	{},
	EmployeeReminder:        {tag: "EMPLOYEE_REMINDER", tier: TierEmployee},
	EmployeeFinalReminder:   {tag: "EMPLOYEE_FINAL_REMINDER", tier: TierEmployee},
	EmployeeMissedDeadline:  {tag: "EMPLOYEE_MISSED_DEADLINE", tier: TierEmployee},
	ManagerReadyForApproval: {tag: "MANAGER_READY_FOR_APPROVAL", tier: TierManager},
	ManagerApprovalOverdue:  {tag: "MANAGER_APPROVAL_OVERDUE", tier: TierManager},
	ManagerEscalation:       {tag: "MANAGER_ESCALATION", tier: TierManager},
	AdminEscalation:         {tag: "ADMIN_ESCALATION", tier: TierAdmin},
	HREscalation:            {tag: "HR_ESCALATION", tier: TierHR},
}

// Resolve returns the reminder type registered under code.
// Any code outside the registered set yields ErrUnsupportedCode.
func Resolve(code int) (Type, error) {
	t := Type(code)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedCode, code)
	}
	return t, nil
}

// Types returns every registered reminder type in code order.
func Types() []Type {
	out := make([]Type, 0, len(types)-1)
	for code := 1; code < len(types); code++ {
		out = append(out, Type(code))
	}
	return out
}

// Code returns the dispatch code of t.
func (t Type) Code() int {
	return int(t)
}

// Valid reports whether t is one of the registered variants.
func (t Type) Valid() bool {
	return t >= EmployeeReminder && int(t) < len(types)
}

// Tier returns the audience tier of t.
func (t Type) Tier() Tier {
	if !t.Valid() {
		return ""
	}
	return types[t].tier
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return types[t].tag
}
