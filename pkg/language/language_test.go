package language_test

import (
	"testing"

	"github.com/adrianliechti/studio/pkg/language"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	l, ok := language.Lookup(" Spanish ")
	require.True(t, ok)
	require.Equal(t, "es", l.Code)

	l, ok = language.Lookup("ja")
	require.True(t, ok)
	require.Equal(t, "japanese", l.Name)
	require.Equal(t, language.ScriptCJK, l.Script)

	_, ok = language.Lookup("klingon")
	require.False(t, ok)
}

func TestParse(t *testing.T) {
	require.Equal(t, []string{"spanish", "german"}, language.Parse("Spanish, klingon,de,spanish", nil))
	require.Equal(t, []string{"german"}, language.Parse("spanish,german", []string{"german"}))
	require.Empty(t, language.Parse("", nil))
}

func TestTitle(t *testing.T) {
	require.Equal(t, "Spanish", language.Title("spanish"))
	require.Equal(t, "", language.Title(" "))
	require.Equal(t, language.ScriptLatin, language.ScriptOf("unknown"))
	require.Equal(t, "hi", language.Code("hindi"))
}
