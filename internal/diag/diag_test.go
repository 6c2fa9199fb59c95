package diag_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"verdant/internal/diag"
	"verdant/internal/source"
)

func TestCategoryCovers(t *testing.T) {
	useConst := diag.LintCategory("style", "useConst")
	require.Equal(t, diag.Category("lint/style/useConst"), useConst)
	require.True(t, diag.Category("lint").Covers(useConst))
	require.True(t, diag.Category("lint/style").Covers(useConst))
	require.True(t, useConst.Covers(useConst))
	require.False(t, diag.Category("lint/sty").Covers(useConst))
	require.False(t, diag.Category("lint/style/useConstant").Covers(useConst))
	require.True(t, diag.Category("").Covers(useConst))
	require.Equal(t, []string{"lint", "style", "useConst"}, useConst.Segments())
}

func TestBuildersDoNotAlias(t *testing.T) {
	base := diag.New(diag.CategoryParse, diag.SevError, source.NewRange(0, 1), diag.Msgf("x")).
		WithRelated(source.NewRange(1, 2), diag.Msgf("here"))
	withPath := base.WithFilePath("a.js")

	require.Equal(t, "", base.Location.Path)
	require.Equal(t, "", base.Related[0].Location.Path)
	require.Equal(t, "a.js", withPath.Related[0].Location.Path)

	tagged := base.WithTags(diag.TagUnnecessary).WithTags(diag.TagDeprecated)
	require.True(t, tagged.Tags.Has(diag.TagUnnecessary))
	require.True(t, tagged.Tags.Has(diag.TagDeprecated))
	require.Zero(t, base.Tags)

	a := base.WithNote(diag.Msgf("a"))
	b := base.WithNote(diag.Msgf("b"))
	require.Equal(t, "a", a.Notes[0].String())
	require.Equal(t, "b", b.Notes[0].String())
}

func TestCategorySeverityAndFooterBuilders(t *testing.T) {
	base := diag.New(diag.CategoryParse, diag.SevError, source.NewRange(0, 1), diag.Msgf("x"))

	moved := base.WithCategory(diag.Category("lint/style/useConst")).WithSeverity(diag.SevWarning)
	require.Equal(t, diag.Category("lint/style/useConst"), moved.Category)
	require.Equal(t, diag.SevWarning, moved.Severity)
	require.Equal(t, diag.CategoryParse, base.Category)
	require.Equal(t, diag.SevError, base.Severity)

	a := base.WithFooter(diag.Msgf("a"))
	b := a.WithFooter(diag.Msgf("b"))
	c := a.WithFooter(diag.Msgf("c"))
	require.Empty(t, base.Footers)
	require.Len(t, a.Footers, 1)
	require.Equal(t, "b", b.Footers[1].String())
	require.Equal(t, "c", c.Footers[1].String())
}

func TestMessageMarkup(t *testing.T) {
	msg := diag.Markup(diag.Text("Use "), diag.Code("==="), diag.Text(" instead of "), diag.Emphasis("=="))
	require.Equal(t, "Use `===` instead of ==", msg.String())
	require.Len(t, msg.Append(diag.Link("docs", "https://example.invalid")), 5)
	require.Len(t, msg, 4)
}

func TestBagSortDedupAndLimit(t *testing.T) {
	bag := diag.NewBag(3)
	second := diag.NewError(diag.CategoryParse, source.NewRange(5, 6), "b")
	first := diag.NewError(diag.CategoryParse, source.NewRange(1, 2), "a")
	require.True(t, bag.Add(second))
	require.True(t, bag.Add(first))
	require.True(t, bag.Add(first))
	require.False(t, bag.Add(first))

	bag.Dedup()
	bag.Sort()
	require.Equal(t, 2, bag.Len())
	require.Equal(t, "a", bag.Items()[0].Message.String())
	require.True(t, bag.HasErrors())
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]diag.Severity{"warn": diag.SevWarning, "error": diag.SevError, "info": diag.SevInfo} {
		got, ok := diag.ParseSeverity(in)
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	_, ok := diag.ParseSeverity("loud")
	require.False(t, ok)
}
