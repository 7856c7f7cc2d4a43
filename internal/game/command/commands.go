// Package command provides the verb registry, the action-line parser, and the
// built-in verb definitions.
package command

import "github.com/cory-johannsen/adventure/internal/game/world"

// Categories for organizing commands in help output.
const (
	CategoryMovement = "movement"
	CategoryWorld    = "world"
	CategoryItems    = "items"
	CategoryPeople   = "people"
	CategorySystem   = "system"
)

// CategoryOrder is the order categories are listed in help output.
var CategoryOrder = []string{
	CategoryMovement,
	CategoryWorld,
	CategoryItems,
	CategoryPeople,
	CategorySystem,
}

// Handler identifiers mapping verbs to action handlers.
const (
	HandlerMove      = "move"
	HandlerBack      = "back"
	HandlerLook      = "look"
	HandlerExits     = "exits"
	HandlerExamine   = "examine"
	HandlerTake      = "take"
	HandlerDrop      = "drop"
	HandlerInventory = "inventory"
	HandlerTalk      = "talk"
	HandlerTrade     = "trade"
	HandlerHelp      = "help"
)

// Command defines a player-invocable verb.
type Command struct {
	// Name is the canonical verb.
	Name string
	// Aliases are alternate names for this verb.
	Aliases []string
	// Usage is the argument synopsis, e.g. "<item>".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command for help output.
	Category string
	// Handler names the action handler that executes the verb.
	Handler string
}

// BuiltinCommands returns all built-in verbs.
func BuiltinCommands() []Command {
	return []Command{
		// Movement
		{Name: "move", Aliases: []string{"go", "walk"}, Usage: "<direction>", Help: "Move through an exit", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "north", Aliases: []string{"n"}, Help: "Move north", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "south", Aliases: []string{"s"}, Help: "Move south", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "east", Aliases: []string{"e"}, Help: "Move east", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "west", Aliases: []string{"w"}, Help: "Move west", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "northeast", Aliases: []string{"ne"}, Help: "Move northeast", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "northwest", Aliases: []string{"nw"}, Help: "Move northwest", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "southeast", Aliases: []string{"se"}, Help: "Move southeast", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "southwest", Aliases: []string{"sw"}, Help: "Move southwest", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "up", Aliases: []string{"u"}, Help: "Move up", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "down", Aliases: []string{"d"}, Help: "Move down", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "back", Aliases: []string{"return"}, Help: "Return to the room you came from", Category: CategoryMovement, Handler: HandlerBack},

		// World
		{Name: "look", Aliases: []string{"l"}, Help: "Look around the current room", Category: CategoryWorld, Handler: HandlerLook},
		{Name: "exits", Help: "List available exits", Category: CategoryWorld, Handler: HandlerExits},
		{Name: "examine", Aliases: []string{"ex", "x"}, Usage: "<item>", Help: "Examine an item here or in your inventory", Category: CategoryWorld, Handler: HandlerExamine},

		// Items
		{Name: "take", Aliases: []string{"get", "pick"}, Usage: "<item>", Help: "Pick up an item in the room", Category: CategoryItems, Handler: HandlerTake},
		{Name: "drop", Usage: "<item>", Help: "Drop an item from your inventory", Category: CategoryItems, Handler: HandlerDrop},
		{Name: "inventory", Aliases: []string{"inv", "i"}, Help: "Show what you are carrying", Category: CategoryItems, Handler: HandlerInventory},

		// People
		{Name: "talk", Aliases: []string{"ask", "say"}, Usage: "<person> [keyword]", Help: "Talk to someone in the room", Category: CategoryPeople, Handler: HandlerTalk},
		{Name: "trade", Aliases: []string{"give"}, Usage: "<item> <person>", Help: "Offer an item to someone in the room", Category: CategoryPeople, Handler: HandlerTrade},

		// System
		{Name: "help", Aliases: []string{"?", "commands"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
	}
}

// IsMovementCommand reports whether the command name is itself a direction.
func IsMovementCommand(name string) bool {
	return world.Direction(name).IsStandard()
}
