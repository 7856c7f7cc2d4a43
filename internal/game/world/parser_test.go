package world

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const marketWorld = `
Title: Market Day
Objective: Find the sword.

[Marketplace]
RoomID: Marketplace1
Name: Market Square
Description: A busy square: stalls everywhere.
Exits: north:TownHall1, east:Marketplace2
Items: sword
Persons: merchant

RoomID: Marketplace2
Name: Back Alley
Description: A narrow alley.
Exits: west:Marketplace1

Item: sword
ItemDescription: A short sword.

Person: merchant
Keywords: hello:greeting; price:haggle
Trades: sword:shield

Item: shield
ItemDescription: A round shield.

[TownHall]
RoomID: TownHall1
Name: Town Hall
Description: Marble floors.
Exits: south:Marketplace1
`

func TestParse_Valid(t *testing.T) {
	w, err := Parse(marketWorld)
	require.NoError(t, err)

	assert.Equal(t, "Market Day", w.Title)
	assert.Equal(t, "Find the sword.", w.Objective)
	assert.Equal(t, "Marketplace1", w.Start)
	assert.Equal(t, []string{"Marketplace", "TownHall"}, w.SectionOrder)
	assert.Equal(t, 3, w.RoomCount())

	room := w.Sections["Marketplace"].Rooms["Marketplace1"]
	require.NotNil(t, room)
	assert.Equal(t, "Market Square", room.Name)
	assert.Equal(t, "A busy square: stalls everywhere.", room.Description)
	assert.Equal(t, map[Direction]string{North: "TownHall1", East: "Marketplace2"}, room.Exits)
	assert.Equal(t, []Direction{North, East}, room.ExitOrder)
	assert.Equal(t, []string{"sword"}, room.Items)
	assert.Equal(t, []string{"merchant"}, room.Persons)

	merchant := w.Persons["merchant"]
	require.NotNil(t, merchant)
	assert.Equal(t, map[string]string{"hello": "greeting", "price": "haggle"}, merchant.Keywords)
	assert.Equal(t, map[string]string{"sword": "shield"}, merchant.Trades)

	assert.Equal(t, "A short sword.", w.Items["sword"].Description)
	assert.Equal(t, "TownHall", w.Sections["TownHall"].Rooms["TownHall1"].Section)
}

func TestParse_MetadataFirstWins(t *testing.T) {
	text := "Title: First\nTitle: Second\n[S]\nRoomID: r1\nObjective: Goal\nObjective: Other\n"
	w, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "First", w.Title)
	assert.Equal(t, "Goal", w.Objective)
}

func TestParse_UnknownLinesIgnored(t *testing.T) {
	text := "# a comment\nSomething: else\n[S]\nRoomID: r1\nrandom words\n"
	w, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, 1, w.RoomCount())
}

func TestParse_CRLF(t *testing.T) {
	text := strings.ReplaceAll(marketWorld, "\n", "\r\n")
	w, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "Market Square", w.Sections["Marketplace"].Rooms["Marketplace1"].Name)
}

func TestParse_ExplicitStart(t *testing.T) {
	text := "Start: r2\n[S]\nRoomID: r1\nRoomID: r2\n"
	w, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "r2", w.StartRoom().ID)
}

func TestParse_StartDefaultsToFirstRoom(t *testing.T) {
	text := "[Empty]\n[S]\nRoomID: r1\nRoomID: r2\n"
	w, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "r1", w.Start)
}

func TestParse_TrailingDelimitersTolerated(t *testing.T) {
	text := "[S]\nRoomID: r1\nExits: north:r2,\nItems: a, ,b,\nRoomID: r2\nItem: a\nItem: b\n"
	w, err := Parse(text)
	require.NoError(t, err)
	r1 := w.Sections["S"].Rooms["r1"]
	assert.Equal(t, []string{"a", "b"}, r1.Items)
	assert.Equal(t, "r2", r1.Exits[North])
}

func TestParse_ItemCursorResetByPerson(t *testing.T) {
	text := "[S]\nRoomID: r1\nItem: a\nPerson: p\nItemDescription: orphan\n"
	_, err := Parse(text)
	require.Error(t, err)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 5, pe.Line)
	assert.Contains(t, pe.Msg, "without an open Item")
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"malformed exit pair", "[S]\nRoomID: r1\nExits: north\n", "malformed pair"},
		{"exit pair with empty target", "[S]\nRoomID: r1\nExits: north:\n", "empty key or value"},
		{"too many colons", "[S]\nRoomID: r1\nExits: north:r1:r2\n", "malformed pair"},
		{"malformed keyword", "[S]\nRoomID: r1\nPerson: p\nKeywords: hello\n", "malformed pair"},
		{"malformed trade", "[S]\nRoomID: r1\nPerson: p\nTrades: a;b\n", "malformed pair"},
		{"room outside section", "RoomID: r1\n", "outside a section"},
		{"field outside room", "[S]\nName: nowhere\n", "outside a room"},
		{"keywords without person", "[S]\nRoomID: r1\nKeywords: a:b\n", "without an open Person"},
		{"contains without item", "[S]\nRoomID: r1\nContains: a\n", "without an open Item"},
		{"duplicate room", "[S]\nRoomID: r1\n[T]\nRoomID: r1\n", "duplicate room"},
		{"duplicate section", "[S]\nRoomID: r1\n[S]\n", "duplicate section"},
		{"duplicate item", "[S]\nRoomID: r1\nItem: a\nItem: a\n", "duplicate item"},
		{"duplicate person", "[S]\nRoomID: r1\nPerson: p\nPerson: p\n", "duplicate person"},
		{"duplicate direction", "[S]\nRoomID: r1\nExits: north:r1, north:r1\n", "duplicate direction"},
		{"empty section name", "[ ]\n", "empty section name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.text)
			require.Error(t, err)
			var pe *ParseError
			assert.True(t, errors.As(err, &pe), "want *ParseError, got %T", err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"no rooms", "Title: Empty\n", "at least one room"},
		{"unknown exit target", "[S]\nRoomID: r1\nExits: north:nowhere\n", "unknown room"},
		{"unknown item", "[S]\nRoomID: r1\nItems: ghost\n", "unknown item"},
		{"unknown person", "[S]\nRoomID: r1\nPersons: ghost\n", "unknown person"},
		{"duplicate room item", "[S]\nRoomID: r1\nItems: coin, coin\nItem: coin\n", "duplicate item"},
		{"duplicate room person", "[S]\nRoomID: r1\nPersons: p, p\nPerson: p\n", "duplicate person"},
		{"unknown contained item", "[S]\nRoomID: r1\nItem: box\nContains: ghost\n", "contains unknown item"},
		{"unknown start", "Start: nowhere\n[S]\nRoomID: r1\n", "start room"},
		{"unknown trade item", "[S]\nRoomID: r1\nPerson: p\nTrades: a:b\n", "trades for unknown item"},
		{"containment cycle", "[S]\nRoomID: r1\nItem: a\nContains: b\nItem: b\nContains: a\n", "cycle"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.text)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadActualTownWorld(t *testing.T) {
	w, err := LoadFromFile("../../../content/worlds/town.txt")
	require.NoError(t, err)

	assert.Equal(t, "The Market Town", w.Title)
	assert.Equal(t, "Marketplace1", w.Start)
	assert.Equal(t, 4, w.RoomCount())
	assert.Equal(t, []string{"coin", "map"}, w.Items["chest"].Contains)
	assert.Equal(t, "seal", w.Persons["clerk"].Trades["lantern"])
}

func TestPropertyParseIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := genWorldText(t)
		w1, err := Parse(text)
		if err != nil {
			t.Fatalf("well-formed world rejected: %v\n%s", err, text)
		}
		w2, err := Parse(text)
		if err != nil {
			t.Fatalf("second parse failed: %v", err)
		}
		assert.Equal(t, w1, w2)
	})
}

func TestPropertyAllReferencesResolve(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w, err := Parse(genWorldText(t))
		if err != nil {
			t.Fatalf("well-formed world rejected: %v", err)
		}
		for _, sname := range w.SectionOrder {
			for _, room := range w.Sections[sname].Rooms {
				for dir, target := range room.Exits {
					if _, ok := w.Room(target); !ok {
						t.Fatalf("room %q exit %q targets unknown room %q", room.ID, dir, target)
					}
				}
				for _, id := range room.Items {
					if _, ok := w.Items[id]; !ok {
						t.Fatalf("room %q lists unknown item %q", room.ID, id)
					}
				}
				for _, id := range room.Persons {
					if _, ok := w.Persons[id]; !ok {
						t.Fatalf("room %q lists unknown person %q", room.ID, id)
					}
				}
			}
		}
		for _, item := range w.Items {
			for _, id := range item.Contains {
				if _, ok := w.Items[id]; !ok {
					t.Fatalf("item %q contains unknown item %q", item.ID, id)
				}
			}
		}
	})
}

func TestPropertyMarshalTextRoundTrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w, err := Parse(genWorldText(t))
		if err != nil {
			t.Fatalf("well-formed world rejected: %v", err)
		}
		again, err := Parse(MarshalText(w))
		if err != nil {
			t.Fatalf("re-parsing marshalled world: %v\n%s", err, MarshalText(w))
		}
		assert.Equal(t, w, again)
	})
}

// genWorldText generates a well-formed world in the line format. Items are
// declared in index order and only contain higher-indexed items, so containment
// is acyclic.
func genWorldText(t *rapid.T) string {
	var b strings.Builder
	b.WriteString("Title: " + rapid.StringMatching(`[A-Z][a-z]{2,10}`).Draw(t, "title") + "\n")
	if rapid.Bool().Draw(t, "has_objective") {
		b.WriteString("Objective: " + rapid.StringMatching(`[A-Za-z ,.!]{1,30}`).Draw(t, "objective") + "\n")
	}

	numItems := rapid.IntRange(0, 5).Draw(t, "num_items")
	items := make([]string, numItems)
	for i := range items {
		items[i] = fmt.Sprintf("item%d%s", i, rapid.StringMatching(`[a-z]{0,4}`).Draw(t, "item_suffix"))
	}
	numPersons := rapid.IntRange(0, 3).Draw(t, "num_persons")
	persons := make([]string, numPersons)
	for i := range persons {
		persons[i] = fmt.Sprintf("person%d", i)
	}

	numSections := rapid.IntRange(1, 3).Draw(t, "num_sections")
	var roomIDs []string
	roomsPerSection := make([]int, numSections)
	for s := range roomsPerSection {
		roomsPerSection[s] = rapid.IntRange(1, 4).Draw(t, "num_rooms")
		for r := 0; r < roomsPerSection[s]; r++ {
			roomIDs = append(roomIDs, fmt.Sprintf("S%dR%d", s, r))
		}
	}

	for s, n := range roomsPerSection {
		fmt.Fprintf(&b, "\n[Section%d]\n", s)
		for r := 0; r < n; r++ {
			fmt.Fprintf(&b, "RoomID: S%dR%d\n", s, r)
			b.WriteString("Name: " + rapid.StringMatching(`[A-Z][a-z]{1,8}( [A-Z][a-z]{1,8})?`).Draw(t, "name") + "\n")
			b.WriteString("Description: " + rapid.StringMatching(`[A-Za-z][A-Za-z ,.:!']{0,40}`).Draw(t, "desc") + "\n")

			numExits := rapid.IntRange(0, 3).Draw(t, "num_exits")
			dirs := rapid.Permutation(StandardDirections).Draw(t, "dirs")[:numExits]
			var exits []string
			for _, d := range dirs {
				target := rapid.SampledFrom(roomIDs).Draw(t, "target")
				exits = append(exits, string(d)+":"+target)
			}
			if len(exits) > 0 {
				b.WriteString("Exits: " + strings.Join(exits, ", ") + "\n")
			}
			if numItems > 0 && rapid.Bool().Draw(t, "has_items") {
				b.WriteString("Items: " + rapid.SampledFrom(items).Draw(t, "room_item") + "\n")
			}
			if numPersons > 0 && rapid.Bool().Draw(t, "has_persons") {
				b.WriteString("Persons: " + rapid.SampledFrom(persons).Draw(t, "room_person") + "\n")
			}
		}
	}

	for i, id := range items {
		b.WriteString("Item: " + id + "\n")
		b.WriteString("ItemDescription: " + rapid.StringMatching(`[A-Za-z ]{0,20}`).Draw(t, "item_desc") + "\n")
		if i+1 < numItems && rapid.Bool().Draw(t, "has_contents") {
			b.WriteString("Contains: " + items[rapid.IntRange(i+1, numItems-1).Draw(t, "inner")] + "\n")
		}
	}
	for _, id := range persons {
		b.WriteString("Person: " + id + "\n")
		b.WriteString("Keywords: " + rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "kw") + ":" +
			rapid.StringMatching(`[A-Za-z]{1,8}`).Draw(t, "response") + "\n")
		if numItems >= 2 {
			b.WriteString("Trades: " + items[0] + ":" + items[numItems-1] + "\n")
		}
	}
	return b.String()
}
