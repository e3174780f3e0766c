// Package smtp delivers mailer.Email messages through an SMTP relay using gomail.
package smtp
