package reminder

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
)

const (
	fieldTo      = "to"
	fieldSubject = "subject"
)

// shapes lists the payload fields each type declares, in template order.
// "subject" is optional on every shape and therefore not listed.
var shapes = map[Type][]string{
	EmployeeReminder:        {fieldTo, "employeeName", "weekDate", "timesheetLink"},
	EmployeeFinalReminder:   {fieldTo, "employeeName", "weekDate", "timesheetLink", "deadlineTime", "supportContact"},
	EmployeeMissedDeadline:  {fieldTo, "employeeName", "weekDate", "timesheetLink", "helpLink", "itSupportEmail"},
	ManagerReadyForApproval: {fieldTo, "managerName", "teamName", "weekDate", "managerApprovalDeadline", "managerDashboardLink"},
	ManagerApprovalOverdue:  {fieldTo, "managerName", "teamName", "weekDate", "deadlineDateTime", "managerDashboardLink"},
	ManagerEscalation:       {fieldTo, "managerName", "employeeName", "weekDate", "managerDashboardLink"},
	AdminEscalation:         {fieldTo, "adminName", "employeeName", "managerName", "teamName", "weekDate", "deadlineDate", "adminDashboardLink"},
	HREscalation:            {fieldTo, "hrContactName", "employeeName", "weekDate", "hrDashboardLink"},
}

// Fields returns the payload field names declared by the shape of t.
func Fields(t Type) []string {
	return slices.Clone(shapes[t])
}

// Shape converts a raw payload into the message shape of t.
//
// Fields are read by exact key. Missing or null fields are left empty and unknown
// keys are ignored. Scalars are coerced to strings; an object or array where a
// string field is expected fails the whole conversion with a *ShapeError.
// A nil payload yields a message with every field empty.
func Shape(t Type, raw Payload) (Message, error) {
	r := &fieldReader{raw: raw, typ: t}
	env := Envelope{To: r.str(fieldTo), Subject: r.str(fieldSubject)}

	var m Message
	switch t {
	case EmployeeReminder:
		m = EmployeeReminderMessage{
			Envelope:      env,
			EmployeeName:  r.str("employeeName"),
			WeekDate:      r.str("weekDate"),
			TimesheetLink: r.str("timesheetLink"),
		}
	case EmployeeFinalReminder:
		m = EmployeeFinalReminderMessage{
			Envelope:       env,
			EmployeeName:   r.str("employeeName"),
			WeekDate:       r.str("weekDate"),
			TimesheetLink:  r.str("timesheetLink"),
			DeadlineTime:   r.str("deadlineTime"),
			SupportContact: r.str("supportContact"),
		}
	case EmployeeMissedDeadline:
		m = EmployeeMissedDeadlineMessage{
			Envelope:       env,
			EmployeeName:   r.str("employeeName"),
			WeekDate:       r.str("weekDate"),
			TimesheetLink:  r.str("timesheetLink"),
			HelpLink:       r.str("helpLink"),
			ITSupportEmail: r.str("itSupportEmail"),
		}
	case ManagerReadyForApproval:
		m = ManagerReadyForApprovalMessage{
			Envelope:                env,
			ManagerName:             r.str("managerName"),
			TeamName:                r.str("teamName"),
			WeekDate:                r.str("weekDate"),
			ManagerApprovalDeadline: r.str("managerApprovalDeadline"),
			ManagerDashboardLink:    r.str("managerDashboardLink"),
		}
	case ManagerApprovalOverdue:
		m = ManagerApprovalOverdueMessage{
			Envelope:             env,
			ManagerName:          r.str("managerName"),
			TeamName:             r.str("teamName"),
			WeekDate:             r.str("weekDate"),
			DeadlineDateTime:     r.str("deadlineDateTime"),
			ManagerDashboardLink: r.str("managerDashboardLink"),
		}
	case ManagerEscalation:
		m = ManagerEscalationMessage{
			Envelope:             env,
			ManagerName:          r.str("managerName"),
			EmployeeName:         r.str("employeeName"),
			WeekDate:             r.str("weekDate"),
			ManagerDashboardLink: r.str("managerDashboardLink"),
		}
	case AdminEscalation:
		m = AdminEscalationMessage{
			Envelope:           env,
			AdminName:          r.str("adminName"),
			EmployeeName:       r.str("employeeName"),
			ManagerName:        r.str("managerName"),
			TeamName:           r.str("teamName"),
			WeekDate:           r.str("weekDate"),
			DeadlineDate:       r.str("deadlineDate"),
			AdminDashboardLink: r.str("adminDashboardLink"),
		}
	case HREscalation:
		m = HREscalationMessage{
			Envelope:        env,
			HRContactName:   r.str("hrContactName"),
			EmployeeName:    r.str("employeeName"),
			WeekDate:        r.str("weekDate"),
			HRDashboardLink: r.str("hrDashboardLink"),
		}
	default:
		return nil, &ShapeError{Type: t, Reason: "no message shape registered"}
	}

	if r.err != nil {
		return nil, r.err
	}
	return m, nil
}

// fieldReader pulls string fields out of a payload and remembers the first failure.
type fieldReader struct {
	err error
	raw Payload
	typ Type
}

func (r *fieldReader) str(key string) string {
	if r.err != nil {
		return ""
	}
	v, ok := r.raw[key]
	if !ok {
		return ""
	}
	s, err := coerce(v)
	if err != nil {
		r.err = &ShapeError{Type: r.typ, Field: key, Reason: err.Error()}
		return ""
	}
	return s
}

// coerce converts a JSON scalar into its string form.
func coerce(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case json.Number:
		return val.String(), nil
	case fmt.Stringer:
		return val.String(), nil
	case map[string]any:
		return "", errors.New("cannot be converted from an object")
	case []any:
		return "", errors.New("cannot be converted from an array")
	default:
		return "", fmt.Errorf("cannot be converted from %T", v)
	}
}
