// Package reminder defines the closed set of timesheet reminder types and the static
// tables that drive a dispatch: the code registry, the template bindings and the
// per-type message shapes.
//
// # Registry
//
// Every reminder type has a stable dispatch code (1 to 8). Resolve maps a code to its
// type and rejects anything else with ErrUnsupportedCode:
//
//	t, err := reminder.Resolve(4) // ManagerReadyForApproval
//
// # Templates
//
// TemplateFor returns the logical template identifier for a type, for example
// "emails/manager/timesheet-ready-approval". Bindings lists all of them with their
// display names.
//
// # Shaping
//
// Shape converts a loosely typed payload into the message struct of a type:
//
//	msg, err := reminder.Shape(reminder.EmployeeReminder, reminder.Payload{
//		"to":            "john@example.com",
//		"employeeName":  "John",
//		"weekDate":      "2024-01-15",
//		"timesheetLink": "https://tms.example.com/t",
//	})
//
// Missing fields stay empty and unknown keys are ignored. Only a structural mismatch,
// such as an object where a string is expected, fails with a *ShapeError.
//
// All tables are built from literals at package init and are read-only afterwards,
// so every function here is safe for concurrent use.
package reminder
