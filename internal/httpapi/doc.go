// Package httpapi exposes the reminder dispatcher and the schedule over HTTP.
//
// Routes:
//
//	POST /api/mail/send/{reminderNumber}      dispatch a reminder, body is a JSON object
//	GET  /api/mail/reminders                  list reminder types and their templates
//	GET  /api/schedule/rules                  list schedule rules
//	POST /api/schedule/rules/{name}/run       fire a schedule rule now
//	GET  /health/live, /health/ready          probes
//
// Errors are answered in plain text: "Invalid request: ..." with 400 for rejected
// input, "Failed to send email: ..." with 500 for render and delivery failures and
// "Internal server error: ..." with 500 otherwise.
package httpapi
