// Package quiz holds the flag quiz state machine.
//
// An Engine is not safe for concurrent use; callers serialize access the
// same way a UI event loop would.
package quiz

import (
	"fmt"
	"math/rand"
	"time"

	"guess-the-flag/internal/domain"
)

const (
	// OptionCount is the number of flags shown per question.
	OptionCount = 3
	// DefaultMaxQuestions is the round length used when Settings leaves it unset.
	DefaultMaxQuestions = 5
)

// Rand is the randomness the engine needs. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a time-seeded generator.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Settings configures a round.
type Settings struct {
	MaxQuestions int
}

// Engine owns the state of one game.
type Engine struct {
	pool           []domain.Country
	correctIndex   int
	score          int
	questionNumber int
	maxQuestions   int
	pending        *domain.Outcome
	selected       int
	rnd            Rand
}

// New starts a game at question 1 with a freshly shuffled pool.
func New(countries []domain.Country, settings Settings, rnd Rand) (*Engine, error) {
	if len(countries) < OptionCount {
		return nil, domain.ErrCatalogTooSmall
	}
	maxQuestions := settings.MaxQuestions
	if maxQuestions == 0 {
		maxQuestions = DefaultMaxQuestions
	}
	if maxQuestions < 0 {
		return nil, fmt.Errorf("%w: max questions %d", domain.ErrInvalidSettings, maxQuestions)
	}
	if rnd == nil {
		rnd = NewRand()
	}

	pool := make([]domain.Country, len(countries))
	copy(pool, countries)

	e := &Engine{
		pool:           pool,
		questionNumber: 1,
		maxQuestions:   maxQuestions,
		selected:       -1,
		rnd:            rnd,
	}
	e.reshuffle()
	return e, nil
}

// SubmitGuess compares the tapped option with the correct one and records
// the outcome. It does not move to the next question; that happens when the
// outcome is acknowledged.
func (e *Engine) SubmitGuess(option int) (domain.Outcome, error) {
	if option < 0 || option >= OptionCount {
		return domain.Outcome{}, fmt.Errorf("%w: %d", domain.ErrOptionOutOfRange, option)
	}
	if e.pending != nil {
		return domain.Outcome{}, domain.ErrFeedbackPending
	}

	var outcome domain.Outcome
	if option == e.correctIndex {
		e.score++
		outcome = domain.Outcome{Kind: domain.OutcomeCorrect}
	} else {
		outcome = domain.Outcome{Kind: domain.OutcomeIncorrect, Country: e.pool[option].Name}
	}
	e.pending = &outcome
	e.selected = option
	return outcome, nil
}

// Advance moves to the next question, or wraps to question 1 and reports
// RoundComplete when the last question was reached. The score is left
// untouched so the summary can show it; it is cleared when the summary is
// acknowledged. The pool is reshuffled in both cases. While a round summary
// is pending Advance does nothing; the summary must be acknowledged first.
func (e *Engine) Advance() {
	if e.pending != nil && e.pending.Kind == domain.OutcomeRoundComplete {
		return
	}
	e.selected = -1
	if e.questionNumber < e.maxQuestions {
		e.questionNumber++
		e.pending = nil
	} else {
		e.questionNumber = 1
		e.pending = &domain.Outcome{
			Kind:         domain.OutcomeRoundComplete,
			FinalScore:   e.score,
			MaxQuestions: e.maxQuestions,
		}
	}
	e.reshuffle()
}

// Acknowledge dismisses the pending notice and returns it. Dismissing guess
// feedback advances the game; dismissing the round summary resets the score.
func (e *Engine) Acknowledge() (domain.Outcome, error) {
	if e.pending == nil {
		return domain.Outcome{}, domain.ErrNothingToAcknowledge
	}
	outcome := *e.pending
	e.pending = nil
	e.selected = -1

	if outcome.Kind == domain.OutcomeRoundComplete {
		e.score = 0
		return outcome, nil
	}
	e.Advance()
	return outcome, nil
}

// Pending returns the outcome awaiting acknowledgement, if any.
func (e *Engine) Pending() (domain.Outcome, bool) {
	if e.pending == nil {
		return domain.Outcome{}, false
	}
	return *e.pending, true
}

func (e *Engine) Score() int          { return e.score }
func (e *Engine) QuestionNumber() int { return e.questionNumber }
func (e *Engine) MaxQuestions() int   { return e.maxQuestions }

// Snapshot returns the renderer's view of the current question.
func (e *Engine) Snapshot() domain.Snapshot {
	options := make([]domain.Country, OptionCount)
	copy(options, e.pool[:OptionCount])

	snap := domain.Snapshot{
		Options:        options,
		Prompt:         e.pool[e.correctIndex].Name,
		Score:          e.score,
		QuestionNumber: e.questionNumber,
		MaxQuestions:   e.maxQuestions,
		Selected:       e.selected,
	}
	if e.pending != nil {
		outcome := *e.pending
		notice := outcome.Notice()
		snap.Outcome = &outcome
		snap.Notice = &notice
	}
	return snap
}

func (e *Engine) reshuffle() {
	e.rnd.Shuffle(len(e.pool), func(i, j int) {
		e.pool[i], e.pool[j] = e.pool[j], e.pool[i]
	})
	e.correctIndex = e.rnd.Intn(OptionCount)
}
