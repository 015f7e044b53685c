package messenger

// Field is a titled section of a renderable.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Renderable is the platform-neutral displayable unit shown as a page.
// It is converted to a concrete embed type only inside platform adapters.
// Renderables are treated as immutable once built; helpers return copies.
type Renderable struct {
	Title       string
	Description string
	Color       int
	Fields      []Field
	ImageURL    string
	Footer      string
}

// WithFooter returns a copy of the renderable with the footer replaced.
func (r *Renderable) WithFooter(text string) *Renderable {
	out := *r
	out.Fields = append([]Field(nil), r.Fields...)
	out.Footer = text
	return &out
}

// WithoutFooter returns a copy of the renderable with the footer stripped.
func (r *Renderable) WithoutFooter() *Renderable {
	return r.WithFooter("")
}
