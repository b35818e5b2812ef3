package model

import internalmodel "github.com/goliatone/go-schoolsite/internal/model"

// FieldKind re-exports the internal FieldKind enumeration.
type FieldKind = internalmodel.FieldKind

const (
	FieldKindText   = internalmodel.FieldKindText
	FieldKindEmail  = internalmodel.FieldKindEmail
	FieldKindPhone  = internalmodel.FieldKindPhone
	FieldKindDate   = internalmodel.FieldKindDate
	FieldKindSelect = internalmodel.FieldKindSelect
	FieldKindFile   = internalmodel.FieldKindFile
)

const (
	ValidationRuleRequired   = internalmodel.ValidationRuleRequired
	ValidationRuleMinLength  = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength  = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern    = internalmodel.ValidationRulePattern
	ValidationRuleEmail      = internalmodel.ValidationRuleEmail
	ValidationRuleDigitCount = internalmodel.ValidationRuleDigitCount
	ValidationRulePastDate   = internalmodel.ValidationRulePastDate
	ValidationRuleOneOf      = internalmodel.ValidationRuleOneOf
)

type ValidationRule = internalmodel.ValidationRule
type Option = internalmodel.Option
type Field = internalmodel.Field
type Notice = internalmodel.Notice
type FormModel = internalmodel.FormModel

type FormDefinition = internalmodel.FormDefinition
type FieldDefinition = internalmodel.FieldDefinition
