// Package mailer delivers task-assignment notifications over SMTP.
//
// Delivery is best effort: a Sender reports success as a bool and never returns
// an error, so a failed notification can be told apart from a failed write.
package mailer
