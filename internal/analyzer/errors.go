package analyzer

import (
	"errors"
	"fmt"

	"verdant/internal/diag"
	"verdant/internal/source"
)

// OptionsError reports rule options that could not be decoded. The rule is
// left out of the run; other rules are unaffected.
type OptionsError struct {
	Rule RuleKey
	Err  error
}

func (e *OptionsError) Error() string {
	return fmt.Sprintf("invalid options for rule %s: %v", e.Rule, e.Err)
}

func (e *OptionsError) Unwrap() error { return e.Err }

// ServiceError reports a query whose required service was never inserted.
type ServiceError struct {
	Rule    RuleKey
	Service string
}

func (e *ServiceError) Error() string {
	if e.Rule == (RuleKey{}) {
		return fmt.Sprintf("service %s is not available", e.Service)
	}
	return fmt.Sprintf("rule %s needs service %s, which is not available", e.Rule, e.Service)
}

// RulePanicError is recorded when the panic barrier caught a rule panic.
type RulePanicError struct {
	Rule  RuleKey
	Value any
	Stack []byte
}

func (e *RulePanicError) Error() string {
	return fmt.Sprintf("rule %s panicked: %v", e.Rule, e.Value)
}

// ErrorDiagnostic turns an engine error into a diagnostic for hosts that
// report them alongside rule output.
func ErrorDiagnostic(err error) (diag.Diagnostic, bool) {
	var (
		oe *OptionsError
		se *ServiceError
		pe *RulePanicError
	)
	switch {
	case errors.As(err, &oe):
		d := diag.New(diag.CategoryConfiguration, diag.SevError, source.TextRange{},
			diag.Markup(diag.Text("invalid options for rule "), diag.Code(oe.Rule.String())))
		return d.WithNote(diag.Msgf("%v", oe.Err)), true
	case errors.As(err, &se):
		return internalDiagnostic(diag.CategoryInternalServiceMissing, se), true
	case errors.As(err, &pe):
		return internalDiagnostic(diag.CategoryInternalPanic, pe).WithSeverity(diag.SevFatal), true
	}
	return diag.Diagnostic{}, false
}

func internalDiagnostic(c diag.Category, err error) diag.Diagnostic {
	return diag.New(c, diag.SevError, source.TextRange{}, diag.Msgf("%s", err.Error())).
		WithTags(diag.TagInternal).
		WithFooter(diag.Msgf("this is a bug in verdant, not in the analyzed file"))
}
