package models

import "wordgame/words"

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusLost       Status = "lost"
	// StatusExhausted ends a run when no word fits the next level's range.
	StatusExhausted Status = "exhausted"
	// StatusAbandoned ends a run the player left, or that was dropped from
	// memory, before it was won or lost.
	StatusAbandoned Status = "abandoned"
)

// Rules are the scoring constants of a game.
type Rules struct {
	MaxWrongGuesses int
	StartPoints     int
	LetterReward    int
	LetterPenalty   int
	WordPenalty     int
}

// DefaultRules are six wrong guesses, 100 starting points, +10 per correct
// letter, -5 per wrong letter and -10 per wrong word.
func DefaultRules() Rules {
	return Rules{MaxWrongGuesses: 6, StartPoints: 100, LetterReward: 10, LetterPenalty: 5, WordPenalty: 10}
}

type Game struct {
	ID         string
	Player     string
	Difficulty words.Difficulty
	Level      int
	Range      words.Range
	Rules      Rules

	Word           string
	Clue           string
	Revealed       []rune
	GuessedLetters []string
	WrongGuesses   int

	Points      int
	TotalPoints int
	RoundsWon   int
	HintUsed    bool

	Status  Status
	Message string
}

// Pattern returns the revealed word with underscores for hidden letters,
// separated by spaces.
func (g *Game) Pattern() string {
	out := make([]rune, 0, len(g.Revealed)*2)
	for i, r := range g.Revealed {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, r)
	}
	return string(out)
}

// Solved reports whether every letter has been revealed.
func (g *Game) Solved() bool {
	for _, r := range g.Revealed {
		if r == '_' {
			return false
		}
	}
	return len(g.Revealed) > 0
}

func (g *Game) HasGuessed(letter string) bool {
	for _, l := range g.GuessedLetters {
		if l == letter {
			return true
		}
	}
	return false
}

func (g *Game) Over() bool {
	return g.Status != StatusInProgress
}

// View is the state shown to the player. Word is only set once the run is
// over.
type View struct {
	ID             string           `json:"id"`
	Player         string           `json:"player"`
	Difficulty     words.Difficulty `json:"difficulty"`
	Level          int              `json:"level"`
	Pattern        string           `json:"pattern"`
	WordLength     int              `json:"word_length"`
	GuessedLetters []string         `json:"guessed_letters"`
	WrongGuesses   int              `json:"wrong_guesses"`
	MaxWrong       int              `json:"max_wrong_guesses"`
	Points         int              `json:"points"`
	TotalPoints    int              `json:"total_points"`
	RoundsWon      int              `json:"rounds_won"`
	HintUsed       bool             `json:"hint_used"`
	Status         Status           `json:"status"`
	Message        string           `json:"message,omitempty"`
	Word           string           `json:"word,omitempty"`
}

func (g *Game) View() View {
	v := View{
		ID:             g.ID,
		Player:         g.Player,
		Difficulty:     g.Difficulty,
		Level:          g.Level,
		Pattern:        g.Pattern(),
		WordLength:     len(g.Revealed),
		GuessedLetters: append([]string{}, g.GuessedLetters...),
		WrongGuesses:   g.WrongGuesses,
		MaxWrong:       g.Rules.MaxWrongGuesses,
		Points:         g.Points,
		TotalPoints:    g.TotalPoints,
		RoundsWon:      g.RoundsWon,
		HintUsed:       g.HintUsed,
		Status:         g.Status,
		Message:        g.Message,
	}
	if g.Over() {
		v.Word = g.Word
	}
	return v
}
