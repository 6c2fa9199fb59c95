package analyzer

import (
	"errors"

	"verdant/internal/source"
	"verdant/internal/syntax"
)

var (
	ErrEmptyAction    = errors.New("action has no mutation")
	ErrStaleAction    = errors.New("action was recorded against a different text")
	ErrEditMismatched = errors.New("committed edit does not reproduce the committed tree")
)

// PreviewAction commits the action onto a new root. The analyzed tree is
// immutable and stays untouched.
func PreviewAction(a RuleAction) (*syntax.Node, *syntax.CommitResult, error) {
	if a.Mutation == nil {
		return nil, nil, ErrEmptyAction
	}
	root, res := a.Mutation.Commit()
	return root, res, nil
}

// ApplyAction applies the action's text edit to text, which must be the text
// the mutation's root was parsed from.
func ApplyAction(text string, a RuleAction) (string, source.TextEdit, error) {
	if a.Mutation == nil {
		return text, nil, ErrEmptyAction
	}
	if a.Mutation.Root().Text() != text {
		return text, nil, ErrStaleAction
	}
	root, res := a.Mutation.Commit()
	if res == nil {
		return text, nil, nil
	}
	out := res.Edit.Apply(text)
	if out != root.Text() {
		return text, nil, ErrEditMismatched
	}
	return out, res.Edit, nil
}
