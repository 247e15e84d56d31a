package brief

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/khatt/internal/core/analysis"
	"github.com/colonyops/khatt/pkg/tuitest"
)

func TestMarkdown(t *testing.T) {
	url := "https://fonts.example/naskh"
	r := analysis.Result{
		Words:               []analysis.Word{{Text: "a"}, {Text: "b"}},
		IdentifiedFontStyle: "Naskh",
		IdentifiedFontName:  "Amiri",
		IdentifiedFontURL:   &url,
		SimilarFonts: []analysis.SimilarFont{
			{Name: "Scheherazade", URL: "https://fonts.example/sch", Source: "Google Fonts"},
			{Name: "Lateef"},
		},
		DesignBrief: "  Formal book hand.  ",
	}

	md := Markdown(r)
	assert.Contains(t, md, "**Naskh** *Amiri*")
	assert.Contains(t, md, "<"+url+">")
	assert.Contains(t, md, "- [Scheherazade](https://fonts.example/sch) (Google Fonts)")
	assert.Contains(t, md, "- Lateef\n")
	assert.Contains(t, md, "## Design brief\n\nFormal book hand.\n")
	assert.Contains(t, md, "2 words")
}

func TestMarkdown_NoStyle(t *testing.T) {
	md := Markdown(analysis.Result{IdentifiedFontStyle: analysis.NoFontStyle})
	assert.Contains(t, md, "No style identified.")
	assert.NotContains(t, md, "Similar fonts")
	assert.NotContains(t, md, "Design brief")
}

func TestView_Render(t *testing.T) {
	v := New(analysis.Result{IdentifiedFontStyle: "Thuluth", DesignBrief: "Display lettering."})
	assert.Empty(t, v.View(), "nothing before the first size")

	v.SetSize(40, 20)
	out := tuitest.StripANSI(v.View())
	assert.Contains(t, out, "Thuluth")
	assert.Contains(t, out, "Display lettering.")

	v.SetResult(analysis.Result{IdentifiedFontStyle: "Kufi"})
	out = tuitest.StripANSI(v.View())
	assert.Contains(t, out, "Kufi")
	assert.NotContains(t, out, "Thuluth")
}
