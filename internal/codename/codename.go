// Package codename generates human-readable gadget labels of the form
// "Adjective Color Animal". Uniqueness is not guaranteed here; the database
// constraint is the authoritative guard and callers resample on collision.
package codename

import (
	"math/rand"
	"strings"
)

var adjectives = []string{
	"Ancient", "Arctic", "Blazing", "Bold", "Brave", "Bright", "Broken",
	"Calm", "Clever", "Cosmic", "Crimson", "Curious", "Daring", "Dashing",
	"Deep", "Eager", "Electric", "Elegant", "Fearless", "Fierce", "Frozen",
	"Gentle", "Ghostly", "Gleaming", "Golden", "Grand", "Hidden", "Hollow",
	"Humble", "Iron", "Jolly", "Keen", "Lone", "Loyal", "Lucky", "Majestic",
	"Mighty", "Mystic", "Nimble", "Noble", "Phantom", "Polished", "Proud",
	"Quick", "Quiet", "Rapid", "Restless", "Roaring", "Rogue", "Royal",
	"Rustic", "Savage", "Sharp", "Silent", "Sleek", "Solar", "Stealthy",
	"Stormy", "Swift", "Vivid", "Wandering", "Wild", "Wise", "Witty",
}

var colors = []string{
	"Amber", "Aqua", "Azure", "Black", "Blue", "Bronze", "Brown", "Copper",
	"Coral", "Crimson", "Emerald", "Gold", "Gray", "Green", "Indigo",
	"Ivory", "Jade", "Magenta", "Maroon", "Olive", "Orange", "Pearl",
	"Pink", "Purple", "Red", "Ruby", "Salmon", "Scarlet", "Silver", "Teal",
	"Violet", "White",
}

var animals = []string{
	"Badger", "Bat", "Bear", "Bison", "Cobra", "Condor", "Cougar", "Crane",
	"Crow", "Dingo", "Dolphin", "Eagle", "Falcon", "Ferret", "Fox", "Gecko",
	"Hawk", "Heron", "Hornet", "Hound", "Ibis", "Jackal", "Jaguar", "Kestrel",
	"Kite", "Koala", "Leopard", "Lion", "Lynx", "Mantis", "Marlin", "Mongoose",
	"Moose", "Orca", "Osprey", "Otter", "Owl", "Panther", "Puma", "Python",
	"Raven", "Salamander", "Scorpion", "Shark", "Sparrow", "Stallion", "Tiger",
	"Viper", "Wolf", "Wolverine",
}

// Random samples one word from each dictionary, capitalized and
// space-separated, e.g. "Silent Azure Falcon".
func Random() string {
	return strings.Join([]string{
		adjectives[rand.Intn(len(adjectives))],
		colors[rand.Intn(len(colors))],
		animals[rand.Intn(len(animals))],
	}, " ")
}

// Combinations reports the size of the sample space.
func Combinations() int { return len(adjectives) * len(colors) * len(animals) }
