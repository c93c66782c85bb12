package quiz

import (
	"fmt"

	"guess-the-flag/internal/domain"
)

// State exports the engine for storage. ID and CatalogID are left for the caller.
func (e *Engine) State() domain.GameState {
	pool := make([]domain.Country, len(e.pool))
	copy(pool, e.pool)

	state := domain.GameState{
		Pool:           pool,
		CorrectIndex:   e.correctIndex,
		Score:          e.score,
		QuestionNumber: e.questionNumber,
		MaxQuestions:   e.maxQuestions,
		Selected:       e.selected,
	}
	if e.pending != nil {
		outcome := *e.pending
		state.Pending = &outcome
	}
	return state
}

// Restore rebuilds an engine from stored state, rejecting state that breaks
// the engine invariants.
func Restore(state domain.GameState, rnd Rand) (*Engine, error) {
	if err := validate(state); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = NewRand()
	}

	pool := make([]domain.Country, len(state.Pool))
	copy(pool, state.Pool)

	e := &Engine{
		pool:           pool,
		correctIndex:   state.CorrectIndex,
		score:          state.Score,
		questionNumber: state.QuestionNumber,
		maxQuestions:   state.MaxQuestions,
		selected:       state.Selected,
		rnd:            rnd,
	}
	if state.Pending != nil {
		outcome := *state.Pending
		e.pending = &outcome
	}
	return e, nil
}

func validate(state domain.GameState) error {
	switch {
	case len(state.Pool) < OptionCount:
		return fmt.Errorf("%w: pool of %d", domain.ErrCorruptState, len(state.Pool))
	case state.CorrectIndex < 0 || state.CorrectIndex >= OptionCount:
		return fmt.Errorf("%w: correct index %d", domain.ErrCorruptState, state.CorrectIndex)
	case state.MaxQuestions < 1:
		return fmt.Errorf("%w: max questions %d", domain.ErrCorruptState, state.MaxQuestions)
	case state.QuestionNumber < 1 || state.QuestionNumber > state.MaxQuestions:
		return fmt.Errorf("%w: question %d of %d", domain.ErrCorruptState, state.QuestionNumber, state.MaxQuestions)
	case state.Score < 0:
		return fmt.Errorf("%w: score %d", domain.ErrCorruptState, state.Score)
	case state.Selected < -1 || state.Selected >= OptionCount:
		return fmt.Errorf("%w: selected %d", domain.ErrCorruptState, state.Selected)
	}
	if state.Pending == nil {
		if state.Selected != -1 {
			return fmt.Errorf("%w: selected %d without a pending outcome", domain.ErrCorruptState, state.Selected)
		}
		return nil
	}
	switch state.Pending.Kind {
	case domain.OutcomeCorrect, domain.OutcomeIncorrect:
		// a guess outcome always carries the option that produced it
		if state.Selected < 0 {
			return fmt.Errorf("%w: %s outcome without a selection", domain.ErrCorruptState, state.Pending.Kind)
		}
		if state.Pending.Kind == domain.OutcomeIncorrect && state.Pending.Country == "" {
			return fmt.Errorf("%w: incorrect outcome without a country", domain.ErrCorruptState)
		}
	case domain.OutcomeRoundComplete:
		if state.Selected != -1 {
			return fmt.Errorf("%w: round summary with selected %d", domain.ErrCorruptState, state.Selected)
		}
	default:
		return fmt.Errorf("%w: outcome %q", domain.ErrCorruptState, state.Pending.Kind)
	}
	return nil
}
