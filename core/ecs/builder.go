package ecs

// EntityBuilder writes the initial components of a freshly created entity.
type EntityBuilder[C any] interface {
	Build(e IndexedEntity[C], c *C)
}

// EntityModifier changes the components of a live entity.
type EntityModifier[C any] interface {
	Modify(e IndexedEntity[C], c *C)
}

// BuildFunc adapts a function to EntityBuilder.
type BuildFunc[C any] func(e IndexedEntity[C], c *C)

func (f BuildFunc[C]) Build(e IndexedEntity[C], c *C) { f(e, c) }

// ModifyFunc adapts a function to EntityModifier.
type ModifyFunc[C any] func(e IndexedEntity[C], c *C)

func (f ModifyFunc[C]) Modify(e IndexedEntity[C], c *C) { f(e, c) }

// Builders folds several builders into one that runs them in order.
// nil entries are skipped.
func Builders[C any](bs ...EntityBuilder[C]) EntityBuilder[C] {
	return BuildFunc[C](func(e IndexedEntity[C], c *C) {
		for _, b := range bs {
			if b != nil {
				b.Build(e, c)
			}
		}
	})
}

// Modifiers folds several modifiers into one that runs them in order.
// nil entries are skipped.
func Modifiers[C any](ms ...EntityModifier[C]) EntityModifier[C] {
	return ModifyFunc[C](func(e IndexedEntity[C], c *C) {
		for _, m := range ms {
			if m != nil {
				m.Modify(e, c)
			}
		}
	})
}
