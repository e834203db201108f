package corpus

import (
	"fmt"
	"math/rand"
)

// SampleSizeError indicates a sample request exceeding the corpus size.
type SampleSizeError struct {
	Requested int
	Size      int
}

func (e *SampleSizeError) Error() string {
	return fmt.Sprintf("sample of %d exceeds corpus size %d", e.Requested, e.Size)
}

// Sample draws n distinct identifiers without replacement, deterministic
// for a given seed.
func (c *Corpus) Sample(n int, seed int64) ([]string, error) {
	dois, err := c.DOIs()
	if err != nil {
		return nil, err
	}
	if n > len(dois) {
		return nil, &SampleSizeError{Requested: n, Size: len(dois)}
	}
	if n < 0 {
		return nil, &SampleSizeError{Requested: n, Size: len(dois)}
	}

	rng := rand.New(rand.NewSource(seed))
	sample := make([]string, n)
	for i, j := range rng.Perm(len(dois))[:n] {
		sample[i] = dois[j]
	}
	return sample, nil
}

// Random returns one random identifier, deterministic for a given seed.
func (c *Corpus) Random(seed int64) (string, error) {
	sample, err := c.Sample(1, seed)
	if err != nil {
		return "", err
	}
	return sample[0], nil
}
