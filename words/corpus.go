package words

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v3"
)

// NoDefinition is the clue used for words the lexicon has no gloss for.
const NoDefinition = "No definition available"

const minWordLength = 3

//go:embed data/lexicon.yaml
var embeddedLexicon []byte

var ErrNoWords = errors.New("no words available")

// Corpus is the set of guessable words and their clues.
type Corpus struct {
	clues map[string]string
	words []string // sorted, for deterministic picks under a seeded source

	cache *lru.Cache[Range, []string]

	mu  sync.Mutex
	rng *rand.Rand
}

// Default loads the lexicon bundled into the binary.
func Default(cacheSize int, src rand.Source) (*Corpus, error) {
	return Parse(embeddedLexicon, cacheSize, src)
}

// LoadFile loads a YAML word: clue map from path.
func LoadFile(path string, cacheSize int, src rand.Source) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	return Parse(data, cacheSize, src)
}

// Parse decodes a YAML word: clue map.
func Parse(data []byte, cacheSize int, src rand.Source) (*Corpus, error) {
	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse corpus: %w", err)
	}
	return New(raw, cacheSize, src)
}

// New builds a corpus from word -> clue pairs. Words that are not purely
// alphabetic or are shorter than three letters are dropped.
func New(entries map[string]string, cacheSize int, src rand.Source) (*Corpus, error) {
	cache, err := lru.New[Range, []string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create range cache: %w", err)
	}

	c := &Corpus{
		clues: make(map[string]string, len(entries)),
		cache: cache,
		rng:   rand.New(src),
	}
	for word, clue := range entries {
		word = strings.ToLower(strings.TrimSpace(word))
		if !isAlpha(word) || len(word) < minWordLength {
			continue
		}
		clue = strings.TrimSpace(clue)
		if clue == "" {
			clue = NoDefinition
		}
		c.clues[word] = clue
	}
	for word := range c.clues {
		c.words = append(c.words, word)
	}
	sort.Strings(c.words)

	if len(c.words) == 0 {
		return nil, ErrNoWords
	}
	return c, nil
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Len returns the number of words in the corpus.
func (c *Corpus) Len() int {
	return len(c.words)
}

// Definition returns the clue for word.
func (c *Corpus) Definition(word string) string {
	if clue, ok := c.clues[strings.ToLower(word)]; ok {
		return clue
	}
	return NoDefinition
}

// Candidates returns the words whose length lies in r.
func (c *Corpus) Candidates(r Range) []string {
	if cached, ok := c.cache.Get(r); ok {
		return cached
	}
	var out []string
	for _, w := range c.words {
		if r.Contains(len(w)) {
			out = append(out, w)
		}
	}
	c.cache.Add(r, out)
	return out
}

// Pick returns a random word in r with its clue.
func (c *Corpus) Pick(r Range) (string, string, error) {
	candidates := c.Candidates(r)
	if len(candidates) == 0 {
		return "", "", fmt.Errorf("%w for length %s", ErrNoWords, r)
	}

	c.mu.Lock()
	word := candidates[c.rng.Intn(len(candidates))]
	c.mu.Unlock()

	return word, c.clues[word], nil
}

// Stats counts the words available to each difficulty.
func (c *Corpus) Stats() map[Difficulty]int {
	stats := make(map[Difficulty]int, len(Difficulties))
	for _, d := range Difficulties {
		stats[d] = len(c.Candidates(DifficultyRange(d)))
	}
	return stats
}
