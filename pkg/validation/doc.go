// Package validation evaluates the declarative rule tables of a form model
// against submitted field values.
//
// A form is compiled once into a Validator; compiling resolves each rule kind
// through a Registry and precompiles regular expressions, so configuration
// faults surface as errors before any request is served. A validation pass is
// a pure function of the values: every field is checked independently, rules
// run in declaration order and the first failing rule supplies the field's
// message. Input problems are never Go errors; they are reported in Result.
package validation
