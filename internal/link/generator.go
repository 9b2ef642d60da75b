package link

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// alphabet is the short-code alphabet: upper and lower case letters plus
// digits, 62 characters.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const (
	// DefaultCodeLength is the length of generated short codes.
	DefaultCodeLength = 6

	// maxCodeLength bounds escalation when shorter codes keep colliding.
	maxCodeLength = 8

	// attemptsPerLength is how many candidates are tried at each length
	// before widening.
	attemptsPerLength = 5
)

// Generator produces uniformly random short-code candidates. Candidates
// carry no uniqueness guarantee on their own; the repository's unique key
// constraint is the final arbiter. When candidates at the base length keep
// colliding, later attempts widen the code instead of looping forever.
type Generator struct {
	baseLength int
	generators []func() string // indexed by length - baseLength
}

// NewGenerator creates a generator for codes of the given base length.
func NewGenerator(length int) (*Generator, error) {
	if length < 2 || length > maxCodeLength {
		return nil, fmt.Errorf("code length %d out of range [2, %d]", length, maxCodeLength)
	}

	gens := make([]func() string, 0, maxCodeLength-length+1)

	for l := length; l <= maxCodeLength; l++ {
		gen, err := nanoid.CustomASCII(alphabet, l)
		if err != nil {
			return nil, fmt.Errorf("init code generator (length %d): %w", l, err)
		}

		gens = append(gens, gen)
	}

	return &Generator{baseLength: length, generators: gens}, nil
}

// Candidate returns a fresh random candidate for the given attempt number.
// Attempts 0..attemptsPerLength-1 use the base length; each further block
// of attempts uses the next longer length.
func (g *Generator) Candidate(attempt int) string {
	idx := attempt / attemptsPerLength
	if idx >= len(g.generators) {
		idx = len(g.generators) - 1
	}

	return g.generators[idx]()
}

// MaxAttempts is the total retry budget across all lengths. Exhausting it
// is a configuration-level failure, not a condition to loop on.
func (g *Generator) MaxAttempts() int {
	return attemptsPerLength * len(g.generators)
}
