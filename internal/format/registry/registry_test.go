package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirteen37/keepfmt/internal/format"
	"github.com/thirteen37/keepfmt/internal/format/ini"
)

func TestNew(t *testing.T) {
	for _, k := range format.Kinds {
		t.Run(k.String(), func(t *testing.T) {
			h, err := New(k, Settings{})
			require.NoError(t, err)
			assert.Equal(t, k, h.Kind())
		})
	}
}

func TestNew_Unknown(t *testing.T) {
	_, err := New(format.Kind(42), Settings{})
	assert.Error(t, err)
}

func TestNew_ConflictingINIFlags(t *testing.T) {
	_, err := New(format.KindINI, Settings{INI: ini.Options{IgnoreInlineComment: true, SpaceBeforeInlineComment: true}})
	assert.ErrorIs(t, err, ini.ErrConflictingFlags)
}

func TestForFile(t *testing.T) {
	h, err := ForFile("settings.YML", Settings{})
	require.NoError(t, err)
	assert.Equal(t, format.KindYAML, h.Kind())

	_, err = ForFile("notes.txt", Settings{})
	assert.Error(t, err)
}

func TestHandlers_RoundTrip(t *testing.T) {
	inputs := map[format.Kind]string{
		format.KindJSON:  "{\n    \"name\": \"app\"\n}\n",
		format.KindJSON5: "{name: 'app'}\n",
		format.KindJSONC: "{\n  // comment\n  \"name\": \"app\"\n}\n",
		format.KindTOML:  "name = \"app\"\n",
		format.KindYAML:  "name: app\n",
		format.KindINI:   "name = app\n",
	}

	for k, input := range inputs {
		t.Run(k.String(), func(t *testing.T) {
			h, err := New(k, Settings{})
			require.NoError(t, err)

			doc, err := h.Parse(input, nil)
			require.NoError(t, err)

			out, err := h.Stringify(doc, nil)
			require.NoError(t, err)

			again, err := h.Parse(out, nil)
			require.NoError(t, err)
			assert.Equal(t, doc.Value, again.Value)
		})
	}
}
