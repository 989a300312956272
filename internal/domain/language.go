package domain

// Languages maps the display names offered by the demo corpus to their
// language codes. The remote corpus may hold more languages; these are the
// ones this system enumerates.
var Languages = map[string]string{
	"Arabic":   "ar",
	"Chinese":  "zh",
	"English":  "en",
	"French":   "fr",
	"German":   "de",
	"Hindi":    "hi",
	"Italian":  "it",
	"Japanese": "ja",
	"Korean":   "ko",
	"Spanish":  "es",
}

// SupportedLanguage reports whether code is one of the enumerated corpus
// language codes.
func SupportedLanguage(code string) bool {
	for _, c := range Languages {
		if c == code {
			return true
		}
	}
	return false
}
