// Package dispatch turns a reminder number and a loosely typed payload into a
// delivered email.
//
// A Dispatcher resolves the number to a reminder type, looks up its template,
// shapes the payload, renders it through a Renderer, assembles the email and hands
// it to a mailer.Sender. Failures come back as *Error values classified by Kind:
// the first three kinds reject the request before anything is rendered, the last
// two report infrastructure failures. A message without a recipient is not sent
// and the dispatch ends as Skipped.
package dispatch
