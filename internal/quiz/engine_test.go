package quiz

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"guess-the-flag/internal/domain"
)

func TestNewStartsAtFirstQuestion(t *testing.T) {
	rnd := &scriptedRand{picks: []int{1}}
	e := newTestEngine(t, rnd, 5)

	snap := e.Snapshot()
	if snap.QuestionNumber != 1 || snap.MaxQuestions != 5 || snap.Score != 0 {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}
	if len(snap.Options) != OptionCount {
		t.Fatalf("expected %d options, got %d", OptionCount, len(snap.Options))
	}
	if snap.Prompt != "France" || snap.Options[1].Name != "France" {
		t.Fatalf("expected prompt France at option 1, got %q (%+v)", snap.Prompt, snap.Options)
	}
	if snap.Notice != nil || snap.Outcome != nil || snap.Selected != -1 {
		t.Fatalf("expected no pending feedback, got %+v", snap)
	}
	if rnd.shuffles != 1 {
		t.Fatalf("expected pool shuffled once, got %d", rnd.shuffles)
	}
}

func TestNewDefaultsRoundLength(t *testing.T) {
	e, err := New(domain.DefaultCatalog().Countries, Settings{}, &scriptedRand{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if e.MaxQuestions() != DefaultMaxQuestions {
		t.Fatalf("expected default of %d questions, got %d", DefaultMaxQuestions, e.MaxQuestions())
	}
}

func TestNewRejectsInvalidInput(t *testing.T) {
	_, err := New([]domain.Country{{Name: "France"}, {Name: "Spain"}}, Settings{}, &scriptedRand{})
	if !errors.Is(err, domain.ErrCatalogTooSmall) {
		t.Fatalf("expected catalog too small, got %v", err)
	}
	_, err = New(domain.DefaultCatalog().Countries, Settings{MaxQuestions: -1}, &scriptedRand{})
	if !errors.Is(err, domain.ErrInvalidSettings) {
		t.Fatalf("expected invalid settings, got %v", err)
	}
}

func TestNewCopiesCatalog(t *testing.T) {
	countries := domain.DefaultCatalog().Countries
	if _, err := New(countries, Settings{}, rand.New(rand.NewSource(7))); err != nil {
		t.Fatalf("new: %v", err)
	}
	if !reflect.DeepEqual(countries, domain.DefaultCatalog().Countries) {
		t.Fatalf("catalog mutated by engine: %+v", countries)
	}
}

func TestCorrectGuessScores(t *testing.T) {
	e := newTestEngine(t, &scriptedRand{picks: []int{1}}, 5)

	outcome, err := e.SubmitGuess(1)
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	if outcome.Kind != domain.OutcomeCorrect {
		t.Fatalf("expected correct, got %+v", outcome)
	}
	snap := e.Snapshot()
	if snap.Score != 1 {
		t.Fatalf("expected score 1, got %d", snap.Score)
	}
	if snap.Notice == nil || *snap.Notice != (domain.Notice{Title: "Correct!", Dismiss: "Continue"}) {
		t.Fatalf("unexpected notice %+v", snap.Notice)
	}
	if snap.Selected != 1 {
		t.Fatalf("expected selected option 1, got %d", snap.Selected)
	}
}

func TestIncorrectGuessKeepsQuestionUntilAcknowledged(t *testing.T) {
	e := newTestEngine(t, &scriptedRand{picks: []int{1, 0}}, 5)

	outcome, err := e.SubmitGuess(2)
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	if outcome.Kind != domain.OutcomeIncorrect || outcome.Country != "Germany" {
		t.Fatalf("expected incorrect guess naming Germany, got %+v", outcome)
	}

	snap := e.Snapshot()
	if snap.Score != 0 || snap.QuestionNumber != 1 {
		t.Fatalf("guess must not advance: %+v", snap)
	}
	if snap.Prompt != "France" {
		t.Fatalf("prompt changed before acknowledgement: %q", snap.Prompt)
	}
	want := domain.Notice{Title: "Wrong", Body: "That is the flag of Germany", Dismiss: "Continue"}
	if snap.Notice == nil || *snap.Notice != want {
		t.Fatalf("expected %+v, got %+v", want, snap.Notice)
	}

	if _, err := e.Acknowledge(); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	snap = e.Snapshot()
	if snap.QuestionNumber != 2 || snap.Notice != nil || snap.Selected != -1 {
		t.Fatalf("expected question 2 without notice, got %+v", snap)
	}
	if snap.Prompt != "Estonia" {
		t.Fatalf("expected redrawn prompt Estonia, got %q", snap.Prompt)
	}
}

func TestGuessRejectsOutOfRangeOption(t *testing.T) {
	e := newTestEngine(t, &scriptedRand{}, 5)
	for _, option := range []int{-1, OptionCount, 10} {
		if _, err := e.SubmitGuess(option); !errors.Is(err, domain.ErrOptionOutOfRange) {
			t.Fatalf("option %d: expected out of range, got %v", option, err)
		}
	}
	if _, ok := e.Pending(); ok {
		t.Fatalf("rejected guess must not record an outcome")
	}
}

func TestGuessRejectedWhileFeedbackPending(t *testing.T) {
	e := newTestEngine(t, &scriptedRand{}, 5)
	if _, err := e.SubmitGuess(0); err != nil {
		t.Fatalf("guess: %v", err)
	}
	if _, err := e.SubmitGuess(0); !errors.Is(err, domain.ErrFeedbackPending) {
		t.Fatalf("expected feedback pending, got %v", err)
	}
	if e.Score() != 1 {
		t.Fatalf("second guess must not score, got %d", e.Score())
	}
}

func TestAcknowledgeWithoutPending(t *testing.T) {
	e := newTestEngine(t, &scriptedRand{}, 5)
	if _, err := e.Acknowledge(); !errors.Is(err, domain.ErrNothingToAcknowledge) {
		t.Fatalf("expected nothing to acknowledge, got %v", err)
	}
}

func TestAdvanceRoundTrip(t *testing.T) {
	rnd := &scriptedRand{picks: []int{2, 0, 1}}
	e := newTestEngine(t, rnd, 5)

	completions := 0
	for i := 0; i < 5; i++ {
		e.Advance()
		if outcome, ok := e.Pending(); ok && outcome.Kind == domain.OutcomeRoundComplete {
			completions++
		}
		if e.correctIndex < 0 || e.correctIndex >= OptionCount {
			t.Fatalf("correct index out of range: %d", e.correctIndex)
		}
	}
	if completions != 1 {
		t.Fatalf("expected exactly one round completion, got %d", completions)
	}
	if e.QuestionNumber() != 1 {
		t.Fatalf("expected question 1 after a full round, got %d", e.QuestionNumber())
	}
	if rnd.shuffles != 6 {
		t.Fatalf("expected a reshuffle per advance, got %d shuffles", rnd.shuffles)
	}
}

func TestAdvanceHoldsPendingSummary(t *testing.T) {
	rnd := &scriptedRand{}
	e := newTestEngine(t, rnd, 1)
	if _, err := e.SubmitGuess(e.correctIndex); err != nil {
		t.Fatalf("guess: %v", err)
	}
	if _, err := e.Acknowledge(); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	shuffles := rnd.shuffles

	e.Advance()

	outcome, ok := e.Pending()
	if !ok || outcome.Kind != domain.OutcomeRoundComplete || outcome.FinalScore != 1 {
		t.Fatalf("expected the round summary to stay pending, got %+v (pending=%v)", outcome, ok)
	}
	if e.Score() != 1 || e.QuestionNumber() != 1 {
		t.Fatalf("expected score 1 on question 1, got %d on %d", e.Score(), e.QuestionNumber())
	}
	if rnd.shuffles != shuffles {
		t.Fatalf("expected no reshuffle while the summary is pending")
	}
	if _, err := e.Acknowledge(); err != nil {
		t.Fatalf("acknowledge summary: %v", err)
	}
	if e.Score() != 0 {
		t.Fatalf("expected score reset after the summary, got %d", e.Score())
	}
}

func TestFiveCorrectGuesses(t *testing.T) {
	e := newTestEngine(t, rand.New(rand.NewSource(42)), 5)

	for i := 0; i < 5; i++ {
		if _, err := e.SubmitGuess(e.correctIndex); err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
		if _, err := e.Acknowledge(); err != nil {
			t.Fatalf("acknowledge %d: %v", i, err)
		}
	}

	outcome, ok := e.Pending()
	if !ok || outcome.Kind != domain.OutcomeRoundComplete || outcome.FinalScore != 5 {
		t.Fatalf("expected round complete with 5, got %+v (pending=%v)", outcome, ok)
	}
	want := domain.Notice{Title: "Good Job!", Body: "Your score was 5/5", Dismiss: "Play again"}
	if got := outcome.Notice(); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if e.Score() != 5 {
		t.Fatalf("score must survive until the summary is dismissed, got %d", e.Score())
	}

	if _, err := e.Acknowledge(); err != nil {
		t.Fatalf("acknowledge summary: %v", err)
	}
	if e.Score() != 0 || e.QuestionNumber() != 1 {
		t.Fatalf("expected fresh round, got score=%d question=%d", e.Score(), e.QuestionNumber())
	}
	if _, ok := e.Pending(); ok {
		t.Fatalf("expected no pending outcome after summary")
	}
}

func TestTwoCorrectThreeIncorrect(t *testing.T) {
	e := newTestEngine(t, rand.New(rand.NewSource(3)), 5)

	for i := 0; i < 5; i++ {
		option := e.correctIndex
		if i >= 2 {
			option = (e.correctIndex + 1) % OptionCount
		}
		if _, err := e.SubmitGuess(option); err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
		if _, err := e.Acknowledge(); err != nil {
			t.Fatalf("acknowledge %d: %v", i, err)
		}
	}

	outcome, ok := e.Pending()
	if !ok || outcome.Kind != domain.OutcomeRoundComplete || outcome.FinalScore != 2 {
		t.Fatalf("expected round complete with 2, got %+v", outcome)
	}
	if outcome.Notice().Body != "Your score was 2/5" {
		t.Fatalf("unexpected summary %q", outcome.Notice().Body)
	}
}

func TestSameOptionGuessedTwice(t *testing.T) {
	e := newTestEngine(t, &scriptedRand{picks: []int{0, 0, 2}}, 5)

	for i := 0; i < 2; i++ {
		outcome, err := e.SubmitGuess(2)
		if err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
		if outcome.Kind != domain.OutcomeIncorrect || outcome.Country != "Germany" {
			t.Fatalf("guess %d: expected incorrect Germany, got %+v", i, outcome)
		}
		if _, err := e.Acknowledge(); err != nil {
			t.Fatalf("acknowledge %d: %v", i, err)
		}
	}
	if e.Score() != 0 {
		t.Fatalf("expected no score, got %d", e.Score())
	}

	// correct index is now 2, so the same tap scores.
	outcome, err := e.SubmitGuess(2)
	if err != nil {
		t.Fatalf("third guess: %v", err)
	}
	if outcome.Kind != domain.OutcomeCorrect || e.Score() != 1 {
		t.Fatalf("expected correct guess and score 1, got %+v score=%d", outcome, e.Score())
	}
}

func TestInvariantsHoldOverManyRounds(t *testing.T) {
	rnd := rand.New(rand.NewSource(99))
	e := newTestEngine(t, rand.New(rand.NewSource(100)), 5)

	for step := 0; step < 200; step++ {
		option := rnd.Intn(OptionCount)
		before := e.Score()
		wasCorrect := option == e.correctIndex

		outcome, err := e.SubmitGuess(option)
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		if wasCorrect != (outcome.Kind == domain.OutcomeCorrect) {
			t.Fatalf("step %d: outcome %s does not match comparison", step, outcome.Kind)
		}
		delta := e.Score() - before
		if (wasCorrect && delta != 1) || (!wasCorrect && delta != 0) {
			t.Fatalf("step %d: unexpected score delta %d", step, delta)
		}

		if _, err := e.Acknowledge(); err != nil {
			t.Fatalf("step %d acknowledge: %v", step, err)
		}
		if pending, ok := e.Pending(); ok {
			if pending.Kind != domain.OutcomeRoundComplete {
				t.Fatalf("step %d: unexpected pending %+v", step, pending)
			}
			if _, err := e.Acknowledge(); err != nil {
				t.Fatalf("step %d summary: %v", step, err)
			}
		}

		if q := e.QuestionNumber(); q < 1 || q > e.MaxQuestions() {
			t.Fatalf("step %d: question %d out of bounds", step, q)
		}
		if e.correctIndex < 0 || e.correctIndex >= OptionCount {
			t.Fatalf("step %d: correct index %d out of bounds", step, e.correctIndex)
		}
	}
}

func TestStateRestoreRoundTrip(t *testing.T) {
	e := newTestEngine(t, rand.New(rand.NewSource(5)), 5)
	if _, err := e.SubmitGuess(0); err != nil {
		t.Fatalf("guess: %v", err)
	}

	restored, err := Restore(e.State(), rand.New(rand.NewSource(6)))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !reflect.DeepEqual(e.Snapshot(), restored.Snapshot()) {
		t.Fatalf("snapshot mismatch:\n%+v\n%+v", e.Snapshot(), restored.Snapshot())
	}
	if _, err := restored.SubmitGuess(1); !errors.Is(err, domain.ErrFeedbackPending) {
		t.Fatalf("restored engine lost pending feedback: %v", err)
	}
}

func TestRestoreRejectsCorruptState(t *testing.T) {
	valid := newTestEngine(t, &scriptedRand{}, 5).State()

	cases := map[string]func(s *domain.GameState){
		"short pool":      func(s *domain.GameState) { s.Pool = s.Pool[:2] },
		"correct index":   func(s *domain.GameState) { s.CorrectIndex = OptionCount },
		"zero max":        func(s *domain.GameState) { s.MaxQuestions = 0 },
		"question beyond": func(s *domain.GameState) { s.QuestionNumber = s.MaxQuestions + 1 },
		"question zero":   func(s *domain.GameState) { s.QuestionNumber = 0 },
		"negative score":  func(s *domain.GameState) { s.Score = -1 },
		"selected":        func(s *domain.GameState) { s.Selected = OptionCount },
		"outcome kind":    func(s *domain.GameState) { s.Pending = &domain.Outcome{Kind: "draw"} },
		"selected without outcome": func(s *domain.GameState) {
			s.Selected = 0
		},
		"guess without selection": func(s *domain.GameState) {
			s.Pending = &domain.Outcome{Kind: domain.OutcomeCorrect}
		},
		"summary with selection": func(s *domain.GameState) {
			s.Pending = &domain.Outcome{Kind: domain.OutcomeRoundComplete, FinalScore: 2, MaxQuestions: 5}
			s.Selected = 1
		},
		"incorrect without country": func(s *domain.GameState) {
			s.Pending = &domain.Outcome{Kind: domain.OutcomeIncorrect}
			s.Selected = 0
		},
	}
	for name, mutate := range cases {
		state := valid
		state.Pool = append([]domain.Country(nil), valid.Pool...)
		mutate(&state)
		if _, err := Restore(state, &scriptedRand{}); !errors.Is(err, domain.ErrCorruptState) {
			t.Fatalf("%s: expected corrupt state, got %v", name, err)
		}
	}
}

func newTestEngine(t *testing.T, rnd Rand, maxQuestions int) *Engine {
	t.Helper()
	e, err := New(domain.DefaultCatalog().Countries, Settings{MaxQuestions: maxQuestions}, rnd)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

// scriptedRand keeps the pool order fixed and returns picks in sequence.
type scriptedRand struct {
	picks    []int
	next     int
	shuffles int
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.picks) == 0 {
		return 0
	}
	v := r.picks[r.next%len(r.picks)]
	r.next++
	return v % n
}

func (r *scriptedRand) Shuffle(int, func(i, j int)) {
	r.shuffles++
}
