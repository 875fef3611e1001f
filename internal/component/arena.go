package component

// Pure data, zero methods. Systems do all mutation.

type Position struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
}

type Velocity struct {
	DX float32 `json:"dx" yaml:"dx"`
	DY float32 `json:"dy" yaml:"dy"`
}

type Health struct {
	HP  int32 `json:"hp" yaml:"hp"`
	Max int32 `json:"max" yaml:"max"`
}

// Team is carried by few entities, so it lives in cold storage.
type Team struct {
	ID uint8 `json:"id" yaml:"id"`
}

type Attack struct {
	Damage int32   `json:"damage" yaml:"damage"`
	Range  float32 `json:"range" yaml:"range"`
}

// Regen restores Amount HP each time the regen system runs.
type Regen struct {
	Amount int32 `json:"amount" yaml:"amount"`
}
