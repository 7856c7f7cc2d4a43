// Package gomud reads the gomud asset layout (zones, areas, and rooms as
// separate YAML files) and converts each zone into a playable world.
package gomud

// GomudZone is the parsed form of a gomud assets/zones/<name>.yaml file.
// Rooms and Areas are lists of display names, not IDs.
type GomudZone struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Rooms       []string `yaml:"rooms"`
	Areas       []string `yaml:"areas"`
}

// GomudArea is the parsed form of a gomud assets/areas/<name>.yaml file.
// Each area becomes a world section.
type GomudArea struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Rooms       []string `yaml:"rooms"`
}

// GomudRoom is the parsed form of a gomud assets/rooms/<name>.yaml file.
// Objects are display names; each becomes an item lying in the room.
type GomudRoom struct {
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Objects     []string             `yaml:"objects"`
	Exits       map[string]GomudExit `yaml:"exits"`
}

// GomudExit is one exit entry in a GomudRoom.Exits map.
// Direction is the capitalized exit keyword (e.g. "North", "Gate").
// Target is the display name of the target room.
type GomudExit struct {
	Direction string `yaml:"direction"`
	Name      string `yaml:"name"`
	Target    string `yaml:"target"`
}
