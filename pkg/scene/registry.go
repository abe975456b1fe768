package scene

import (
	"fmt"
	"sort"
)

// builtinScenes maps scene names accepted on the command line to their
// constructors.
var builtinScenes = map[string]func() *Scene{
	"default": NewDefaultScene,
	"cornell": NewCornellScene,
}

// Names returns the available built-in scene names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtinScenes))
	for name := range builtinScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup builds the named scene or reports the valid choices.
func Lookup(name string) (*Scene, error) {
	build, ok := builtinScenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %v)", name, Names())
	}
	return build(), nil
}
