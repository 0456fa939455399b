package catalog

import "github.com/rcliao/baby-bitcoin/internal/model"

// Animals are the first story choice.
var Animals = New("animals", []model.Item{
	{ID: "cat", Name: "Cat", Glyph: "🐱"},
	{ID: "dog", Name: "Dog", Glyph: "🐶"},
	{ID: "rabbit", Name: "Rabbit", Glyph: "🐰"},
	{ID: "fox", Name: "Fox", Glyph: "🦊"},
	{ID: "bear", Name: "Bear", Glyph: "🐻"},
	{ID: "panda", Name: "Panda", Glyph: "🐼"},
	{ID: "koala", Name: "Koala", Glyph: "🐨"},
	{ID: "tiger", Name: "Tiger", Glyph: "🐯"},
	{ID: "lion", Name: "Lion", Glyph: "🦁"},
	{ID: "cow", Name: "Cow", Glyph: "🐮"},
	{ID: "pig", Name: "Pig", Glyph: "🐷"},
	{ID: "frog", Name: "Frog", Glyph: "🐸"},
	{ID: "monkey", Name: "Monkey", Glyph: "🐵"},
	{ID: "penguin", Name: "Penguin", Glyph: "🐧"},
	{ID: "owl", Name: "Owl", Glyph: "🦉"},
	{ID: "unicorn", Name: "Unicorn", Glyph: "🦄"},
})

// Places are where the animal lives.
var Places = New("places", []model.Item{
	{ID: "castle", Name: "Castle", Glyph: "🏰"},
	{ID: "forest", Name: "Forest", Glyph: "🌲"},
	{ID: "beach", Name: "Beach", Glyph: "🏖️"},
	{ID: "mountain", Name: "Mountain", Glyph: "⛰️"},
	{ID: "island", Name: "Island", Glyph: "🏝️"},
	{ID: "desert", Name: "Desert", Glyph: "🏜️"},
	{ID: "volcano", Name: "Volcano", Glyph: "🌋"},
	{ID: "city", Name: "City", Glyph: "🏙️"},
	{ID: "farm", Name: "Farm", Glyph: "🏡"},
	{ID: "cave", Name: "Cave", Glyph: "🕳️"},
	{ID: "moon", Name: "Moon", Glyph: "🌙"},
	{ID: "ocean", Name: "Ocean", Glyph: "🌊"},
	{ID: "tent", Name: "Tent", Glyph: "⛺"},
	{ID: "igloo", Name: "Igloo", Glyph: "🧊"},
	{ID: "rainbow", Name: "Rainbow", Glyph: "🌈"},
	{ID: "treehouse", Name: "Treehouse", Glyph: "🌳"},
})

// Objects are the animal's favorite thing.
var Objects = New("objects", []model.Item{
	{ID: "crown", Name: "Crown", Glyph: "👑"},
	{ID: "ball", Name: "Ball", Glyph: "⚽"},
	{ID: "book", Name: "Book", Glyph: "📚"},
	{ID: "guitar", Name: "Guitar", Glyph: "🎸"},
	{ID: "kite", Name: "Kite", Glyph: "🪁"},
	{ID: "rocket", Name: "Rocket", Glyph: "🚀"},
	{ID: "balloon", Name: "Balloon", Glyph: "🎈"},
	{ID: "umbrella", Name: "Umbrella", Glyph: "☂️"},
	{ID: "key", Name: "Key", Glyph: "🔑"},
	{ID: "gift", Name: "Gift", Glyph: "🎁"},
	{ID: "teddy", Name: "Teddy Bear", Glyph: "🧸"},
	{ID: "bell", Name: "Bell", Glyph: "🔔"},
	{ID: "camera", Name: "Camera", Glyph: "📷"},
	{ID: "compass", Name: "Compass", Glyph: "🧭"},
	{ID: "lantern", Name: "Lantern", Glyph: "🏮"},
	{ID: "diamond", Name: "Diamond", Glyph: "💎"},
})

// Fruits make up public addresses. The codec requires at least 16.
var Fruits = New("fruits", []model.Item{
	{ID: "apple", Name: "Apple", Glyph: "🍎"},
	{ID: "banana", Name: "Banana", Glyph: "🍌"},
	{ID: "cherry", Name: "Cherry", Glyph: "🍒"},
	{ID: "grape", Name: "Grape", Glyph: "🍇"},
	{ID: "lemon", Name: "Lemon", Glyph: "🍋"},
	{ID: "orange", Name: "Orange", Glyph: "🍊"},
	{ID: "peach", Name: "Peach", Glyph: "🍑"},
	{ID: "pear", Name: "Pear", Glyph: "🍐"},
	{ID: "pineapple", Name: "Pineapple", Glyph: "🍍"},
	{ID: "strawberry", Name: "Strawberry", Glyph: "🍓"},
	{ID: "watermelon", Name: "Watermelon", Glyph: "🍉"},
	{ID: "kiwi", Name: "Kiwi", Glyph: "🥝"},
	{ID: "mango", Name: "Mango", Glyph: "🥭"},
	{ID: "coconut", Name: "Coconut", Glyph: "🥥"},
	{ID: "blueberry", Name: "Blueberry", Glyph: "🫐"},
	{ID: "melon", Name: "Melon", Glyph: "🍈"},
})

// ByName returns the catalog with the given name.
func ByName(name string) (Catalog, bool) {
	switch name {
	case "animals", "animal":
		return Animals, true
	case "places", "place":
		return Places, true
	case "objects", "object":
		return Objects, true
	case "fruits", "fruit":
		return Fruits, true
	}
	return Catalog{}, false
}

// All returns the four catalogs in story order, fruits last.
func All() []Catalog {
	return []Catalog{Animals, Places, Objects, Fruits}
}

// Set bundles the four catalogs a story needs.
type Set struct {
	Animals Catalog
	Places  Catalog
	Objects Catalog
	Fruits  Catalog
}

// Default returns the built-in catalogs.
func Default() Set {
	return Set{Animals: Animals, Places: Places, Objects: Objects, Fruits: Fruits}
}
