package models

import (
	"regexp"
	"time"
)

type GadgetStatus string

const (
	StatusAvailable      GadgetStatus = "Available"
	StatusDecommissioned GadgetStatus = "Decommissioned"
	StatusDestroyed      GadgetStatus = "Destroyed"
)

type Gadget struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Codename         string       `json:"codename"`
	Status           GadgetStatus `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	DecommissionedAt *time.Time   `json:"decommissioned_at"`
}

// Same loose shape test the original API used: 36 hex-or-hyphen characters.
// A codename that happens to match will be routed to the id branch and miss;
// that ambiguity is accepted, not fixed.
var uuidShapeRe = regexp.MustCompile(`^[0-9a-fA-F-]{36}$`)

// IsUUIDShaped reports whether identifier should be resolved as a primary id
// rather than a codename.
func IsUUIDShaped(identifier string) bool { return uuidShapeRe.MatchString(identifier) }
