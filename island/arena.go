package island

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/rossumoya/biosim/animal"
)

// Arena owns the identity of every animal on the island as an ECS entity
// carrying a single Animal component. Cells hold entity handles, so moving an
// animal between cells is a handle relocation and never a copy, and an animal
// exists in exactly one place until it is removed.
type Arena struct {
	world  *ecs.World
	mapper *ecs.Map1[animal.Animal]
	lookup *ecs.Map[animal.Animal]
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	world := ecs.NewWorld()
	return &Arena{
		world:  world,
		mapper: ecs.NewMap1[animal.Animal](world),
		lookup: ecs.NewMap[animal.Animal](world),
	}
}

// Spawn stores an animal and returns its handle.
func (ar *Arena) Spawn(a animal.Animal) ecs.Entity {
	return ar.mapper.NewEntity(&a)
}

// Get returns the animal behind a handle. The pointer stays valid until the
// entity is removed.
func (ar *Arena) Get(e ecs.Entity) *animal.Animal {
	return ar.lookup.Get(e)
}

// Holds reports whether the handle refers to a live animal.
func (ar *Arena) Holds(e ecs.Entity) bool {
	return ar.lookup.Has(e)
}

// Remove destroys an animal. The handle must not be used afterwards.
func (ar *Arena) Remove(e ecs.Entity) {
	ar.mapper.Remove(e)
}
