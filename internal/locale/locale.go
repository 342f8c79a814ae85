// Package locale translates crop labels for presentation.
package locale

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var spanishCrops = map[string]string{
	"rice":        "arroz",
	"maize":       "maíz",
	"chickpea":    "garbanzo",
	"kidneybeans": "frijol riñón",
	"pigeonpeas":  "guandú",
	"mothbeans":   "vigna moth",
	"mungbean":    "frijol mungo",
	"blackgram":   "frijol negro",
	"lentil":      "lenteja",
	"pomegranate": "granada",
	"banana":      "plátano",
	"mango":       "mango",
	"grapes":      "uvas",
	"watermelon":  "sandía",
	"muskmelon":   "melón",
	"apple":       "manzana",
	"orange":      "naranja",
	"papaya":      "papaya",
	"coconut":     "coco",
	"cotton":      "algodón",
	"jute":        "yute",
	"coffee":      "café",
}

// Translator maps crop labels into one language. Labels without a
// translation are returned unchanged.
type Translator struct {
	tag   language.Tag
	names map[string]string
}

var (
	English = &Translator{tag: language.English}
	Spanish = &Translator{tag: language.Spanish, names: spanishCrops}
)

// Supported lists the languages labels can be rendered in.
func Supported() []language.Tag {
	return []language.Tag{English.tag, Spanish.tag}
}

// For returns the translator for a request's lang value. Any value starting
// with "es" (case-insensitive) selects Spanish; everything else, including
// the empty string, leaves labels untouched.
func For(lang string) *Translator {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(lang)), "es") {
		return Spanish
	}
	return English
}

// Tag is the language labels are rendered in.
func (t *Translator) Tag() language.Tag {
	return t.tag
}

// Crop translates a single label, matching it case-insensitively.
func (t *Translator) Crop(label string) string {
	if len(t.names) == 0 {
		return label
	}
	// a Caser is stateful, so one is made per call
	if name, ok := t.names[cases.Lower(language.Und).String(label)]; ok {
		return name
	}
	return label
}
