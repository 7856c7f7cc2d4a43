package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const yamlWorldDoc = `
world:
  title: Harbour
  sections:
    - name: Docks
      rooms:
        - id: pier
          name: Pier
          description: Wet planks.
          exits:
            - direction: North
              target: shed
          items: [net]
        - id: shed
          name: Shed
          description: Dark and dusty.
          exits:
            - direction: south
              target: pier
  items:
    - id: net
      description: A fishing net.
  persons:
    - id: sailor
      keywords:
        Ahoy: greeting
`

func TestUnmarshalYAML_Valid(t *testing.T) {
	w, err := UnmarshalYAML([]byte(yamlWorldDoc))
	require.NoError(t, err)
	assert.Equal(t, "Harbour", w.Title)
	assert.Equal(t, "pier", w.Start)
	pier, ok := w.Room("pier")
	require.True(t, ok)
	assert.Equal(t, "shed", pier.Exits[North])
	assert.Equal(t, "greeting", w.Persons["sailor"].Keywords["ahoy"])
	assert.NotNil(t, w.Persons["sailor"].Trades)
}

func TestUnmarshalYAML_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"not yaml", "world: [", "parsing world YAML"},
		{"duplicate room", "world:\n  sections:\n    - name: A\n      rooms:\n        - id: r\n        - id: r\n", "duplicate room"},
		{"unknown exit", "world:\n  sections:\n    - name: A\n      rooms:\n        - id: r\n          exits:\n            - direction: up\n              target: x\n", "unknown room"},
		{"no rooms", "world:\n  title: Empty\n", "at least one room"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UnmarshalYAML([]byte(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestPropertyYAMLRoundTrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w, err := Parse(genWorldText(t))
		if err != nil {
			t.Fatalf("well-formed world rejected: %v", err)
		}
		data, err := MarshalYAML(w)
		if err != nil {
			t.Fatalf("MarshalYAML: %v", err)
		}
		again, err := UnmarshalYAML(data)
		if err != nil {
			t.Fatalf("UnmarshalYAML: %v\n%s", err, data)
		}
		assert.Equal(t, w, again)
	})
}
