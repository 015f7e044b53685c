package messenger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolKey(t *testing.T) {
	assert.Equal(t, "➡️", Sym("➡️").Key())
	assert.Equal(t, "9001", Symbol{Name: "blob", ID: "9001"}.Key(), "custom emoji key by id, names collide across guilds")
}

func TestSymbolAPIName(t *testing.T) {
	assert.Equal(t, "➡️", Sym("➡️").APIName())
	assert.Equal(t, "blob:9001", Symbol{Name: "blob", ID: "9001"}.APIName())
}

func TestSymbolMatches(t *testing.T) {
	tests := []struct {
		name string
		a, b Symbol
		want bool
	}{
		{name: "same unicode name", a: Sym("➡️"), b: Sym("➡️"), want: true},
		{name: "different unicode name", a: Sym("➡️"), b: Sym("⬅️"), want: false},
		{name: "same id different display name", a: Symbol{Name: "blob", ID: "9001"}, b: Symbol{Name: "renamed", ID: "9001"}, want: true},
		{name: "different id same name", a: Symbol{Name: "blob", ID: "9001"}, b: Symbol{Name: "blob", ID: "9002"}, want: true},
		{name: "empty never matches", a: Symbol{}, b: Symbol{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Matches(tt.b))
		})
	}
}

func TestRenderableWithFooterCopies(t *testing.T) {
	orig := &Renderable{
		Title:  "original",
		Footer: "old",
		Fields: []Field{{Name: "f1", Value: "v1"}},
	}

	got := orig.WithFooter("new")
	assert.Equal(t, "new", got.Footer)
	assert.Equal(t, "old", orig.Footer, "the source renderable must stay untouched")

	got.Fields[0].Value = "mutated"
	assert.Equal(t, "v1", orig.Fields[0].Value, "field slices must not be shared")
}

func TestRenderableWithoutFooter(t *testing.T) {
	orig := &Renderable{Title: "t", Footer: "x"}
	assert.Empty(t, orig.WithoutFooter().Footer)
	assert.Equal(t, "x", orig.Footer)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "***", maskSecret(""))
	assert.Equal(t, "***", maskSecret("short"))
	assert.Equal(t, "abcdefg***wxyz", maskSecret("abcdefghijklmnopqrstuvwxyz"))
}
