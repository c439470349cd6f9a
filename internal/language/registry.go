package language

import "fmt"

// DefaultCode is the language every unknown code resolves to.
const DefaultCode = "en"

// Entry maps a language code to its display name and synthesis voice.
type Entry struct {
	Code    string
	Name    string
	VoiceID string
}

// Registry is the fixed language table. The set is configuration data and
// never changes after process start.
type Registry struct {
	entries []Entry
	byCode  map[string]Entry
}

var supportedLanguages = []Entry{
	{Code: "en", Name: "English", VoiceID: "21m00Tcm4TlvDq8ikWAM"},
	{Code: "es", Name: "Spanish", VoiceID: "ErXwobaYiN019PkySvjV"},
	{Code: "zh", Name: "Chinese", VoiceID: "XrExE9yKIg1WjnnlVkGX"},
	{Code: "hi", Name: "Hindi", VoiceID: "21m00Tcm4TlvDq8ikWAM"},
	{Code: "ar", Name: "Arabic", VoiceID: "pNInz6obpgDQGcFmaJgB"},
	{Code: "fr", Name: "French", VoiceID: "XB0fDUnXU5powFXDhCwa"},
	{Code: "pt", Name: "Portuguese", VoiceID: "EXAVITQu4vr4xnSDxMaL"},
	{Code: "ko", Name: "Korean", VoiceID: "yoZ06aMxZJJ28mfd3POQ"},
}

func NewRegistry() *Registry {
	byCode := make(map[string]Entry, len(supportedLanguages))
	for _, e := range supportedLanguages {
		byCode[e.Code] = e
	}
	return &Registry{entries: supportedLanguages, byCode: byCode}
}

// Resolve returns the entry for code, or the default entry when the code is
// unknown. It never fails.
func (r *Registry) Resolve(code string) Entry {
	if e, ok := r.byCode[code]; ok {
		return e
	}
	return r.byCode[DefaultCode]
}

// List returns the entries in presentation order.
func (r *Registry) List() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Localize applies the per-language wrapper used for synthesized speech.
// Chinese duplicates the text with an English rendition appended; Arabic
// prepends an Arabic-tagged header. Every other language passes through.
func Localize(text, code string) string {
	switch code {
	case "zh":
		return fmt.Sprintf("中文版本: %s\n\nEnglish version: %s", text, text)
	case "ar":
		return fmt.Sprintf("النص بالعربية: %s", text)
	default:
		return text
	}
}
