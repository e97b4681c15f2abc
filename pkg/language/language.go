package language

import (
	"slices"
	"strings"
)

type Script string

const (
	ScriptLatin      Script = "latin"
	ScriptCyrillic   Script = "cyrillic"
	ScriptDevanagari Script = "devanagari"
	ScriptArabic     Script = "arabic"
	ScriptCJK        Script = "cjk"
)

type Language struct {
	Name string
	Code string

	Script Script
}

var Supported = []Language{
	{Name: "spanish", Code: "es", Script: ScriptLatin},
	{Name: "german", Code: "de", Script: ScriptLatin},
	{Name: "hindi", Code: "hi", Script: ScriptDevanagari},
	{Name: "french", Code: "fr", Script: ScriptLatin},
	{Name: "italian", Code: "it", Script: ScriptLatin},
	{Name: "portuguese", Code: "pt", Script: ScriptLatin},
	{Name: "russian", Code: "ru", Script: ScriptCyrillic},
	{Name: "japanese", Code: "ja", Script: ScriptCJK},
	{Name: "chinese", Code: "zh", Script: ScriptCJK},
	{Name: "arabic", Code: "ar", Script: ScriptArabic},
}

// Lookup resolves a language by name or ISO code, case insensitive.
func Lookup(val string) (Language, bool) {
	val = strings.ToLower(strings.TrimSpace(val))

	for _, l := range Supported {
		if l.Name == val || l.Code == val {
			return l, true
		}
	}

	return Language{}, false
}

// Title returns the display form of a language name ("spanish" -> "Spanish").
func Title(name string) string {
	name = strings.TrimSpace(name)

	if name == "" {
		return ""
	}

	return strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
}

// Code returns the ISO code for a language name, falling back to the input.
func Code(name string) string {
	if l, ok := Lookup(name); ok {
		return l.Code
	}

	return name
}

// ScriptOf returns the writing system of a language, Latin when unknown.
func ScriptOf(name string) Script {
	if l, ok := Lookup(name); ok {
		return l.Script
	}

	return ScriptLatin
}

// Parse splits a comma separated list, normalizes each entry to its
// canonical name and drops unknown and duplicate entries. allowed limits
// the result further when non-empty.
func Parse(val string, allowed []string) []string {
	var result []string

	for _, part := range strings.Split(val, ",") {
		l, ok := Lookup(part)

		if !ok {
			continue
		}

		if len(allowed) > 0 && !slices.Contains(allowed, l.Name) {
			continue
		}

		if slices.Contains(result, l.Name) {
			continue
		}

		result = append(result, l.Name)
	}

	return result
}
