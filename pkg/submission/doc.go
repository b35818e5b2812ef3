// Package submission runs a site form submission end to end: validation, the
// success acknowledgment, clearing of the form state and the hand-off of
// accepted entries to a Sink. Nothing is persisted; the bundled LogSink only
// records accepted entries in the structured log.
package submission
