package component

import "github.com/l1jgo/ecsrt/core/ecs"

// Component names as registered. Aspects, prefabs and scripts refer to them.
const (
	NamePosition = "position"
	NameVelocity = "velocity"
	NameHealth   = "health"
	NameTeam     = "team"
	NameAttack   = "attack"
	NameRegen    = "regen"
)

// Set is the arena's component configuration.
type Set struct {
	Position *ecs.ComponentList[Set, Position]
	Velocity *ecs.ComponentList[Set, Velocity]
	Health   *ecs.ComponentList[Set, Health]
	Team     *ecs.ComponentList[Set, Team]
	Attack   *ecs.ComponentList[Set, Attack]
	Regen    *ecs.ComponentList[Set, Regen]
}

func NewSet(r *ecs.Registry[Set]) *Set {
	return &Set{
		Position: ecs.NewHot[Set, Position](r, NamePosition),
		Velocity: ecs.NewHot[Set, Velocity](r, NameVelocity),
		Health:   ecs.NewHot[Set, Health](r, NameHealth),
		Team:     ecs.NewCold[Set, Team](r, NameTeam),
		Attack:   ecs.NewCold[Set, Attack](r, NameAttack),
		Regen:    ecs.NewCold[Set, Regen](r, NameRegen),
	}
}

// Names lists every registered component name.
var Names = []string{NamePosition, NameVelocity, NameHealth, NameTeam, NameAttack, NameRegen}
