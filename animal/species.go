package animal

import "fmt"

// Species selects the parameter table and the feeding behavior of an animal.
type Species uint8

const (
	Herbivore Species = iota
	Carnivore

	numSpecies = 2
)

// String returns the canonical species name.
func (s Species) String() string {
	switch s {
	case Herbivore:
		return "Herbivore"
	case Carnivore:
		return "Carnivore"
	}
	return fmt.Sprintf("Species(%d)", uint8(s))
}

// ParseSpecies maps a species name to its tag.
func ParseSpecies(name string) (Species, error) {
	switch name {
	case "Herbivore":
		return Herbivore, nil
	case "Carnivore":
		return Carnivore, nil
	}
	return 0, fmt.Errorf("%w: unknown species %q", ErrParam, name)
}
