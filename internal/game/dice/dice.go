// Package dice provides the core randomness abstraction and die rolls for
// the gridduel combat engine.
package dice

import "fmt"

// Die is the number of faces on a combat die. Players carry distinct die
// sizes for attack and defense.
type Die int

// The two die sizes the game hands out at character creation.
const (
	D4 Die = 4
	D6 Die = 6
)

// Source is the randomness provider for dice rolls and evasion draws.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int

	// Float64 returns a uniform random float64 in [0, 1).
	Float64() float64
}

// Roll returns a uniform result in [1, faces].
//
// Precondition: faces >= 1; src must be non-nil.
// Postcondition: 1 <= result <= int(faces); the extremes are achievable at
// the extremes of the underlying source.
func Roll(faces Die, src Source) int {
	if faces < 1 {
		panic(fmt.Sprintf("dice: Roll called with faces = %d", faces))
	}
	return src.Intn(int(faces)) + 1
}
