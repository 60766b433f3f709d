package types

import (
	"fmt"
	"strings"
)

// Locale selects the vocabulary used when rendering type names.
type Locale string

const (
	LocaleGerman  Locale = "de"
	LocaleEnglish Locale = "en"
)

// DefaultLocale matches the vocabulary of the source language.
const DefaultLocale = LocaleGerman

type vocabulary struct {
	names      map[Kind]string
	listOf     string
	pointerTo  string
	objectOpen string
}

var vocabularies = map[Locale]vocabulary{
	LocaleGerman: {
		names: map[Kind]string{
			None:      "Nichts",
			Int:       "Zahl",
			Float:     "Fließkommazahl",
			Char:      "Zeichen",
			Bool:      "Wahrheitswert",
			String:    "Zeichenkette",
			AnyObject: "Speicherbox",
		},
		listOf:     "Liste von ",
		pointerTo:  "Zeiger auf ",
		objectOpen: "Objekt {",
	},
	LocaleEnglish: {
		names: map[Kind]string{
			None:      "none",
			Int:       "int",
			Float:     "float",
			Char:      "char",
			Bool:      "bool",
			String:    "string",
			AnyObject: "anyobject",
		},
		listOf:     "list of ",
		pointerTo:  "pointer to ",
		objectOpen: "object {",
	},
}

// Renderer produces human-readable type names for diagnostics.
type Renderer struct {
	vocab vocabulary
}

// NewRenderer returns a renderer for locale. Unknown locales are rejected.
func NewRenderer(locale Locale) (*Renderer, error) {
	vocab, ok := vocabularies[locale]
	if !ok {
		return nil, fmt.Errorf("unsupported render locale %q", locale)
	}
	return &Renderer{vocab: vocab}, nil
}

// SupportedLocale reports whether locale has a vocabulary.
func SupportedLocale(locale Locale) bool {
	_, ok := vocabularies[locale]
	return ok
}

var defaultRenderer = &Renderer{vocab: vocabularies[DefaultLocale]}

// Render renders d with the default locale.
func Render(d Descriptor) string {
	return defaultRenderer.Render(d)
}

// Render is total: every kind produces a name. Object fields are listed in
// sorted order as "<type> <name>" separated by ", ".
func (r *Renderer) Render(d Descriptor) string {
	var b strings.Builder
	r.render(&b, d)
	return b.String()
}

func (r *Renderer) render(b *strings.Builder, d Descriptor) {
	for i := 0; i < d.PtrDepth; i++ {
		b.WriteString(r.vocab.pointerTo)
	}

	switch d.Kind {
	case List:
		b.WriteString(r.vocab.listOf)
		if d.Elem == nil {
			b.WriteString(r.vocab.names[None])
			return
		}
		r.render(b, *d.Elem)
	case Object:
		b.WriteString(r.vocab.objectOpen)
		for i, name := range d.FieldNames() {
			if i > 0 {
				b.WriteString(", ")
			}
			r.render(b, d.Fields[name])
			b.WriteByte(' ')
			b.WriteString(name)
		}
		b.WriteByte('}')
	default:
		if name, ok := r.vocab.names[d.Kind]; ok {
			b.WriteString(name)
			return
		}
		b.WriteString(d.Kind.String())
	}
}
