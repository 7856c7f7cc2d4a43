package gomud_test

import (
	"testing"

	"github.com/cory-johannsen/adventure/internal/game/world"
	igomud "github.com/cory-johannsen/adventure/internal/importer/gomud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestConvertZone_Basic(t *testing.T) {
	zone := &igomud.GomudZone{
		Name:        "Test Zone",
		Description: "Find the way out.",
		Rooms:       []string{"Room A", "Room B"},
	}
	rooms := map[string]*igomud.GomudRoom{
		"Room A": {
			Name:        "Room A",
			Description: "The first room.",
			Exits: map[string]igomud.GomudExit{
				"North": {Direction: "North", Target: "Room B"},
			},
		},
		"Room B": {
			Name:        "Room B",
			Description: "The second room.",
			Exits: map[string]igomud.GomudExit{
				"South": {Direction: "South", Target: "Room A"},
			},
		},
	}
	roomArea := map[string]string{
		"Room A": "Area One",
	}

	w, warnings := igomud.ConvertZone(zone, rooms, roomArea, "")
	assert.Empty(t, warnings)
	require.NoError(t, w.Validate())

	assert.Equal(t, "Test Zone", w.Title)
	assert.Equal(t, "Find the way out.", w.Objective)
	assert.Equal(t, "room_a", w.Start)
	assert.Equal(t, []string{"area_one", "test_zone"}, w.SectionOrder)
	assert.Equal(t, 2, w.RoomCount())

	roomA, ok := w.Room("room_a")
	require.True(t, ok)
	assert.Equal(t, "Room A", roomA.Name)
	assert.Equal(t, "area_one", roomA.Section)
	target, ok := roomA.Exit(world.North)
	require.True(t, ok)
	assert.Equal(t, "room_b", target)

	roomB, ok := w.Room("room_b")
	require.True(t, ok)
	assert.Equal(t, "test_zone", roomB.Section)
}

func TestConvertZone_StartRoomOverride(t *testing.T) {
	zone := &igomud.GomudZone{
		Name:  "Test Zone",
		Rooms: []string{"Room A", "Room B"},
	}
	rooms := map[string]*igomud.GomudRoom{
		"Room A": {Name: "Room A", Description: "desc"},
		"Room B": {Name: "Room B", Description: "desc"},
	}

	w, warnings := igomud.ConvertZone(zone, rooms, nil, "Room B")
	assert.Empty(t, warnings)
	assert.Equal(t, "room_b", w.Start)
}

func TestConvertZone_UnknownExitTarget_WarnAndDrop(t *testing.T) {
	zone := &igomud.GomudZone{
		Name:  "Test Zone",
		Rooms: []string{"Room A"},
	}
	rooms := map[string]*igomud.GomudRoom{
		"Room A": {
			Name:        "Room A",
			Description: "desc",
			Exits: map[string]igomud.GomudExit{
				"North": {Direction: "North", Target: "Nonexistent Room"},
			},
		},
	}

	w, warnings := igomud.ConvertZone(zone, rooms, nil, "")
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Nonexistent Room")
	room, ok := w.Room("room_a")
	require.True(t, ok)
	assert.Empty(t, room.Exits)
}

func TestConvertZone_MissingRoom_WarnAndSkip(t *testing.T) {
	zone := &igomud.GomudZone{
		Name:  "Test Zone",
		Rooms: []string{"Room A", "Missing Room"},
	}
	rooms := map[string]*igomud.GomudRoom{
		"Room A": {Name: "Room A", Description: "desc"},
	}

	w, warnings := igomud.ConvertZone(zone, rooms, nil, "")
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Missing Room")
	assert.Equal(t, 1, w.RoomCount())
}

func TestConvertZone_ExitKeywordsNormalized(t *testing.T) {
	zone := &igomud.GomudZone{
		Name:  "Test Zone",
		Rooms: []string{"Room A", "Room B"},
	}
	rooms := map[string]*igomud.GomudRoom{
		"Room A": {
			Name:        "Room A",
			Description: "desc",
			Exits: map[string]igomud.GomudExit{
				"Northeast":  {Direction: "Northeast", Target: "Room B"},
				"Trap Door":  {Direction: "Trap Door", Target: "Room B"},
				"South Gate": {Target: "Room B"},
			},
		},
		"Room B": {Name: "Room B", Description: "desc"},
	}

	w, warnings := igomud.ConvertZone(zone, rooms, nil, "")
	assert.Empty(t, warnings)
	room, _ := w.Room("room_a")
	assert.Equal(t, []world.Direction{"northeast", "south_gate", "trap_door"}, room.ExitOrder)
}

func TestConvertZone_ObjectsBecomeItems(t *testing.T) {
	zone := &igomud.GomudZone{
		Name:  "Test Zone",
		Rooms: []string{"Room A", "Room B"},
	}
	rooms := map[string]*igomud.GomudRoom{
		"Room A": {Name: "Room A", Description: "desc", Objects: []string{"Old Couch", "Lamp"}},
		"Room B": {Name: "Room B", Description: "desc", Objects: []string{"Lamp"}},
	}

	w, _ := igomud.ConvertZone(zone, rooms, nil, "")
	require.NoError(t, w.Validate())
	roomA, _ := w.Room("room_a")
	assert.Equal(t, []string{"old_couch", "lamp"}, roomA.Items)
	require.Contains(t, w.Items, "old_couch")
	assert.Equal(t, "Old Couch", w.Items["old_couch"].Description)
	assert.Len(t, w.Items, 2)
}

func TestConvertZone_DuplicateObjectsKeptOnce(t *testing.T) {
	zone := &igomud.GomudZone{
		Name:  "Test Zone",
		Rooms: []string{"Room A"},
	}
	rooms := map[string]*igomud.GomudRoom{
		"Room A": {Name: "Room A", Description: "desc", Objects: []string{"Coin", "coin", "Lamp"}},
	}

	w, warnings := igomud.ConvertZone(zone, rooms, nil, "")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "duplicate object")
	require.NoError(t, w.Validate())
	roomA, _ := w.Room("room_a")
	assert.Equal(t, []string{"coin", "lamp"}, roomA.Items)
}

func TestConvertZone_StartRoomOverride_NotInList_Warns(t *testing.T) {
	zone := &igomud.GomudZone{
		Name:  "Test Zone",
		Rooms: []string{"Room A"},
	}
	rooms := map[string]*igomud.GomudRoom{
		"Room A": {Name: "Room A", Description: "desc"},
	}

	w, warnings := igomud.ConvertZone(zone, rooms, nil, "Room Z")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Room Z")
	assert.Equal(t, "room_a", w.Start)
}

// TestConvertZone_Deterministic ensures the world text is stable across calls
// even though exits come from a map.
func TestConvertZone_Deterministic(t *testing.T) {
	zone := &igomud.GomudZone{
		Name:  "Test Zone",
		Rooms: []string{"Room A", "Room B"},
	}
	rooms := map[string]*igomud.GomudRoom{
		"Room A": {Name: "Room A", Description: "d", Exits: map[string]igomud.GomudExit{
			"North": {Direction: "North", Target: "Room B"},
			"East":  {Direction: "East", Target: "Room B"},
			"Up":    {Direction: "Up", Target: "Room B"},
		}},
		"Room B": {Name: "Room B", Description: "d"},
	}
	first, _ := igomud.ConvertZone(zone, rooms, nil, "")
	for i := 0; i < 10; i++ {
		got, _ := igomud.ConvertZone(zone, rooms, nil, "")
		assert.Equal(t, world.MarshalText(first), world.MarshalText(got), "iteration %d", i)
	}
}

// TestConvertZone_OutputRoomCountLeInput is a property-based test verifying the
// output room count never exceeds the input zone room list length.
func TestConvertZone_OutputRoomCountLeInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfN(rapid.StringMatching(`[A-Za-z ]{1,20}`), 0, 5).Draw(t, "names")
		zone := &igomud.GomudZone{
			Name:  "Zone",
			Rooms: names,
		}
		// Only add definitions for a subset; missing ones are warned and skipped.
		rooms := make(map[string]*igomud.GomudRoom)
		for i, n := range names {
			if i%2 == 0 {
				rooms[n] = &igomud.GomudRoom{Name: n, Description: "d"}
			}
		}
		w, _ := igomud.ConvertZone(zone, rooms, nil, "")
		require.NotNil(t, w)
		assert.LessOrEqual(t, w.RoomCount(), len(names),
			"output room count must not exceed input room list length")
	})
}

// TestConvertZone_ValidWhenAllRoomsDefined is a property-based test verifying
// that a zone whose rooms all exist converts to a world that validates.
func TestConvertZone_ValidWhenAllRoomsDefined(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(t, "rooms")
		zone := &igomud.GomudZone{Name: "Zone"}
		rooms := make(map[string]*igomud.GomudRoom, n)
		for i := 0; i < n; i++ {
			name := "Room " + string(rune('A'+i))
			zone.Rooms = append(zone.Rooms, name)
			rooms[name] = &igomud.GomudRoom{Name: name, Description: "d", Exits: map[string]igomud.GomudExit{}}
		}
		for i := 0; i < n; i++ {
			from := "Room " + string(rune('A'+i))
			to := "Room " + string(rune('A'+rapid.IntRange(0, n-1).Draw(t, "target")))
			rooms[from].Exits["Out"] = igomud.GomudExit{Direction: "Out", Target: to}
		}
		w, warnings := igomud.ConvertZone(zone, rooms, nil, "")
		assert.Empty(t, warnings)
		assert.NoError(t, w.Validate())
	})
}
