package study

import (
	"math/rand/v2"

	"kelime/internal/models"
)

// SampleWords picks up to n words uniformly without replacement. words is
// not modified.
func SampleWords(rng *rand.Rand, words []models.Word, n int) []models.Word {
	out := make([]models.Word, len(words))
	copy(out, words)
	if n > len(out) {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(out)-i)
		out[i], out[j] = out[j], out[i]
	}
	return out[:n]
}

// Shuffle returns a uniformly random permutation of words
func Shuffle(rng *rand.Rand, words []models.Word) []models.Word {
	out := make([]models.Word, len(words))
	copy(out, words)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
