// Package model defines the typed form model shared by the validator, the
// renderers and the submission pipeline. Builders reside in internal/model but
// return the types defined here. Validation rules use canonical kinds
// (required, minLength, pattern, email, digitCount, pastDate, oneOf) with
// string parameters so definitions stay declarative and JSON snapshots stay
// stable.
package model
