// Package wordbank holds the fixed pool of drawable words and the masked
// rendering shown to guessers.
package wordbank

import (
	"github.com/scrawl-games/scrawl/internal/strpool"

	"github.com/valyala/fastrand"
)

var defaultWords = []string{
	"cat", "dog", "house", "tree", "car", "sun", "moon", "star", "flower", "bird",
	"fish", "book", "phone", "computer", "guitar", "piano", "camera", "bicycle",
	"umbrella", "chair", "table", "cup", "bottle", "shoe", "hat", "clock",
	"butterfly", "rainbow", "mountain", "beach", "ocean", "river", "bridge",
	"castle", "rocket", "airplane", "boat", "train", "pizza", "burger", "ice cream",
	"cake", "apple", "banana", "carrot", "elephant", "giraffe", "lion", "tiger",
	"penguin", "dolphin", "whale", "octopus", "spider", "butterfly", "snowman",
	"campfire", "tent", "backpack", "glasses", "crown", "sword", "shield",
}

func New(words []string) *Bank {
	if len(words) == 0 {
		words = defaultWords
	}
	return &Bank{words: words}
}

func Default() *Bank {
	return New(nil)
}

type Bank struct {
	words []string
}

// Random picks a word uniformly. Draws are independent, so the same word can
// come up in consecutive rounds.
func (b *Bank) Random() string {
	return b.words[fastrand.Uint32n(uint32(len(b.words)))]
}

func (b *Bank) Len() int {
	return len(b.words)
}

func (b *Bank) Contains(word string) bool {
	for _, w := range b.words {
		if w == word {
			return true
		}
	}
	return false
}

// Mask renders the underscore run shown to non-drawers, one underscore per
// rune of the secret.
func Mask(word string) string {
	buf := strpool.Get()
	defer func() {
		buf.Reset()
		strpool.Put(buf)
	}()

	for range word {
		buf.WriteByte('_')
	}

	return buf.String()
}
