// Package anagram produces character shuffles of a piece of text.
package anagram

import (
	"errors"
	"math/rand/v2"
	"strings"
)

const (
	// MaxAnagrams is the most candidates a single generation returns.
	MaxAnagrams = 3

	// MaxAttempts bounds the number of shuffles tried per generation.
	MaxAttempts = 20
)

var (
	// ErrEmptyInput is returned when the input is empty after trimming whitespace.
	ErrEmptyInput = errors.New("input text cannot be empty")

	// ErrGenerationFailed is returned when no shuffle differed from the input
	// within MaxAttempts.
	ErrGenerationFailed = errors.New("anagram generation failed")
)

// Shuffler reorders n elements by calling swap, like rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// Generator builds anagrams using its Shuffler.
type Generator struct {
	shuffle Shuffler
}

// NewGenerator returns a Generator backed by shuffle. A nil shuffle uses the
// package-level math/rand/v2 source, which is safe for concurrent use.
func NewGenerator(shuffle Shuffler) *Generator {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	return &Generator{shuffle: shuffle}
}

var defaultGenerator = NewGenerator(nil)

// Generate runs the default generator.
func Generate(inputText string) ([]string, error) {
	return defaultGenerator.Generate(inputText)
}

// Generate shuffles the runes of inputText until MaxAnagrams distinct
// candidates differing from inputText are found or MaxAttempts shuffles have
// been made. Candidates are returned in the order they were found.
func (g *Generator) Generate(inputText string) ([]string, error) {
	if strings.TrimSpace(inputText) == "" {
		return nil, ErrEmptyInput
	}

	source := []rune(inputText)
	seen := make(map[string]struct{}, MaxAnagrams)
	anagrams := make([]string, 0, MaxAnagrams)

	for attempts := 0; len(anagrams) < MaxAnagrams && attempts < MaxAttempts; attempts++ {
		chars := make([]rune, len(source))
		copy(chars, source)
		g.shuffle(len(chars), func(i, j int) {
			chars[i], chars[j] = chars[j], chars[i]
		})

		candidate := string(chars)
		if candidate == inputText {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		anagrams = append(anagrams, candidate)
	}

	if len(anagrams) == 0 {
		return nil, ErrGenerationFailed
	}

	return anagrams, nil
}
