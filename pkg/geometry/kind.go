// Package geometry is the catalog of solid primitives the explorer can cut.
// Every solid is generated procedurally as a closed mesh with outward
// counter-clockwise winding, and has a signed-distance twin used to check
// cross-section areas independently of the tessellation.
package geometry

import "strings"

// Kind selects a solid from the catalog.
type Kind int

const (
	Box Kind = iota
	Sphere
	Cylinder
	Cone
	Torus
	Capsule
	HexPrism
	Tetrahedron
	Octahedron
	Dodecahedron
	Icosahedron
)

var kindNames = [...]string{
	Box:          "box",
	Sphere:       "sphere",
	Cylinder:     "cylinder",
	Cone:         "cone",
	Torus:        "torus",
	Capsule:      "capsule",
	HexPrism:     "hexprism",
	Tetrahedron:  "tetrahedron",
	Octahedron:   "octahedron",
	Dodecahedron: "dodecahedron",
	Icosahedron:  "icosahedron",
}

// Kinds returns every catalog entry in menu order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[Box]
	}
	return kindNames[k]
}

// Valid reports whether k names a catalog entry.
func (k Kind) Valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

// ParseKind maps a selector string to a Kind. Matching ignores case and
// surrounding space, and accepts "hex-prism"/"hex_prism". Unknown selectors
// fall back to Box; ok reports whether the name was recognized.
func ParseKind(name string) (k Kind, ok bool) {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
	for i, n := range kindNames {
		if n == s {
			return Kind(i), true
		}
	}
	return Box, false
}

// Names returns the selector strings in menu order.
func Names() []string {
	out := make([]string, len(kindNames))
	copy(out, kindNames[:])
	return out
}
