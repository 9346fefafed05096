package logic

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"wordgame/models"
	"wordgame/words"
)

var ErrGameOver = errors.New("game is over")

// WordPicker chooses the word for a round.
type WordPicker interface {
	Pick(r words.Range) (word, clue string, err error)
}

type Outcome string

const (
	OutcomeInvalid        Outcome = "invalid"
	OutcomeAlreadyGuessed Outcome = "already_guessed"
	OutcomeCorrect        Outcome = "correct"
	OutcomeWrong          Outcome = "wrong"
	OutcomeRoundWon       Outcome = "round_won"
	OutcomeLost           Outcome = "lost"
	OutcomeHint           Outcome = "hint"
	OutcomeHintUsed       Outcome = "hint_used"
	OutcomeReset          Outcome = "reset"
	OutcomeAbandoned      Outcome = "abandoned"
)

// Result describes what a move did. Word is set when a round ends.
type Result struct {
	Outcome Outcome
	Message string
	Word    string
	Points  int
	Total   int
}

// NewGame starts a run at level 1 using the difficulty's length range.
func NewGame(id, player string, difficulty words.Difficulty, rules models.Rules, picker WordPicker) (*models.Game, error) {
	g := &models.Game{
		ID:         id,
		Player:     player,
		Difficulty: difficulty,
		Level:      1,
		Range:      words.DifficultyRange(difficulty),
		Rules:      rules,
		Points:     rules.StartPoints,
		Status:     models.StatusInProgress,
	}
	if err := startRound(g, picker); err != nil {
		return nil, err
	}
	// The first round starts with the configured points, not the (zero) total.
	g.Points = rules.StartPoints
	return g, nil
}

// startRound picks a new word and clears per-round state. Points restart
// from the running total.
func startRound(g *models.Game, picker WordPicker) error {
	word, clue, err := picker.Pick(g.Range)
	if err != nil {
		g.Status = models.StatusExhausted
		g.Message = fmt.Sprintf("No words available for the selected difficulty (%s).", g.Difficulty)
		return fmt.Errorf("level %d: %w", g.Level, err)
	}

	g.Word = strings.ToLower(word)
	g.Clue = clue
	g.Revealed = []rune(strings.Repeat("_", len(g.Word)))
	g.GuessedLetters = nil
	g.WrongGuesses = 0
	g.Points = g.TotalPoints
	g.HintUsed = false
	return nil
}

// GuessLetter applies a single-letter guess.
func GuessLetter(g *models.Game, input string, picker WordPicker) (Result, error) {
	if g.Over() {
		return Result{}, ErrGameOver
	}

	letter := strings.ToLower(strings.TrimSpace(input))
	if !isSingleLetter(letter) {
		return result(g, OutcomeInvalid, "Please enter a single letter."), nil
	}
	if g.HasGuessed(letter) {
		return result(g, OutcomeAlreadyGuessed,
			fmt.Sprintf("You've already guessed '%s'. Try a different letter.", letter)), nil
	}

	g.GuessedLetters = append(g.GuessedLetters, letter)

	outcome := OutcomeWrong
	if strings.Contains(g.Word, letter) {
		for i, c := range g.Word {
			if string(c) == letter {
				g.Revealed[i] = c
			}
		}
		g.Points += g.Rules.LetterReward
		outcome = OutcomeCorrect
	} else {
		g.WrongGuesses++
		g.Points -= g.Rules.LetterPenalty
	}

	if g.Solved() {
		return winRound(g, picker)
	}
	if g.WrongGuesses >= g.Rules.MaxWrongGuesses {
		return lose(g), nil
	}

	msg := fmt.Sprintf("'%s' is in the word.", letter)
	if outcome == OutcomeWrong {
		msg = fmt.Sprintf("'%s' is not in the word.", letter)
	}
	g.Message = msg
	return result(g, outcome, msg), nil
}

// GuessWord applies a whole-word guess.
func GuessWord(g *models.Game, input string, picker WordPicker) (Result, error) {
	if g.Over() {
		return Result{}, ErrGameOver
	}

	guess := strings.ToLower(strings.TrimSpace(input))
	if guess == "" {
		return result(g, OutcomeInvalid, "Please enter a word."), nil
	}
	if guess == g.Word {
		return winRound(g, picker)
	}

	g.WrongGuesses++
	g.Points -= g.Rules.WordPenalty
	if g.WrongGuesses >= g.Rules.MaxWrongGuesses {
		return lose(g), nil
	}

	g.Message = fmt.Sprintf("'%s' is not the correct word.", guess)
	return result(g, OutcomeWrong, g.Message), nil
}

// Hint reveals the clue once per round.
func Hint(g *models.Game) (Result, error) {
	if g.Over() {
		return Result{}, ErrGameOver
	}
	if g.HintUsed {
		return result(g, OutcomeHintUsed, "You've already used your hint!"), nil
	}
	g.HintUsed = true
	return result(g, OutcomeHint, fmt.Sprintf("Here's a hint: %s", g.Clue)), nil
}

// Reset abandons the current word and starts a new round at the same level.
func Reset(g *models.Game, picker WordPicker) (Result, error) {
	if g.Over() {
		return Result{}, ErrGameOver
	}
	if err := startRound(g, picker); err != nil {
		return result(g, OutcomeReset, g.Message), err
	}
	g.Message = ""
	return result(g, OutcomeReset, "New word."), nil
}

// Abandon ends a run that is still in progress without a win or a loss.
func Abandon(g *models.Game) (Result, error) {
	if g.Over() {
		return Result{}, ErrGameOver
	}
	g.Status = models.StatusAbandoned
	g.Message = "Game abandoned."
	return Result{Outcome: OutcomeAbandoned, Message: g.Message, Word: g.Word, Points: g.Points, Total: g.TotalPoints}, nil
}

func winRound(g *models.Game, picker WordPicker) (Result, error) {
	solved := g.Word
	roundPoints := g.Points

	g.TotalPoints += g.Points
	g.RoundsWon++
	g.Level++
	g.Range = words.LevelRange(g.Level, g.Range)

	msg := fmt.Sprintf("You guessed the word '%s'! Your score: %d | Total Score: %d", solved, roundPoints, g.TotalPoints)
	res := Result{Outcome: OutcomeRoundWon, Message: msg, Word: solved, Points: roundPoints, Total: g.TotalPoints}

	if err := startRound(g, picker); err != nil {
		res.Message = msg + " " + g.Message
		return res, err
	}
	g.Message = msg
	return res, nil
}

func lose(g *models.Game) Result {
	g.Status = models.StatusLost
	g.Message = fmt.Sprintf("You lost! The word was '%s'.", g.Word)
	return Result{Outcome: OutcomeLost, Message: g.Message, Word: g.Word, Points: g.Points, Total: g.TotalPoints}
}

func result(g *models.Game, outcome Outcome, msg string) Result {
	return Result{Outcome: outcome, Message: msg, Points: g.Points, Total: g.TotalPoints}
}

func isSingleLetter(s string) bool {
	r := []rune(s)
	return len(r) == 1 && r[0] <= unicode.MaxASCII && unicode.IsLetter(r[0])
}
