package domain

import "strconv"

// DefaultCatalogID names the built-in catalog.
const DefaultCatalogID = "default"

// Country is a single entry of a catalog.
type Country struct {
	Name string `json:"name"`
	Flag string `json:"flag"` // image asset name; defaults to Name
}

// FlagAsset returns the image name to render for the country.
func (c Country) FlagAsset() string {
	if c.Flag == "" {
		return c.Name
	}
	return c.Flag
}

// Catalog is the fixed set of countries a game draws its questions from.
type Catalog struct {
	ID        string    `json:"id"`
	Countries []Country `json:"countries"`
}

// DefaultCatalog returns the built-in catalog of eleven countries.
func DefaultCatalog() Catalog {
	names := []string{"Estonia", "France", "Germany", "Ireland", "Italy", "Nigeria", "Poland", "Russia", "Spain", "UK", "US"}
	countries := make([]Country, 0, len(names))
	for _, name := range names {
		countries = append(countries, Country{Name: name, Flag: name})
	}
	return Catalog{ID: DefaultCatalogID, Countries: countries}
}

// OutcomeKind classifies the result of a guess or of a finished round.
type OutcomeKind string

const (
	OutcomeCorrect       OutcomeKind = "correct"
	OutcomeIncorrect     OutcomeKind = "incorrect"
	OutcomeRoundComplete OutcomeKind = "round_complete"
)

// Outcome is the transient result a renderer turns into feedback.
type Outcome struct {
	Kind         OutcomeKind `json:"kind"`
	Country      string      `json:"country,omitempty"` // the wrongly tapped country, for incorrect guesses
	FinalScore   int         `json:"finalScore,omitempty"`
	MaxQuestions int         `json:"maxQuestions,omitempty"`
}

// Notice is the title/body/dismiss-label triple shown for an outcome.
type Notice struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	Dismiss string `json:"dismiss"`
}

// Notice builds the acknowledgeable message for the outcome.
func (o Outcome) Notice() Notice {
	switch o.Kind {
	case OutcomeCorrect:
		return Notice{Title: "Correct!", Dismiss: "Continue"}
	case OutcomeIncorrect:
		return Notice{Title: "Wrong", Body: "That is the flag of " + o.Country, Dismiss: "Continue"}
	case OutcomeRoundComplete:
		return Notice{
			Title:   "Good Job!",
			Body:    "Your score was " + strconv.Itoa(o.FinalScore) + "/" + strconv.Itoa(o.MaxQuestions),
			Dismiss: "Play again",
		}
	}
	return Notice{}
}

// Snapshot is the read model a renderer draws from.
type Snapshot struct {
	GameID         string    `json:"gameId"`
	CatalogID      string    `json:"catalogId"`
	Options        []Country `json:"options"`
	Prompt         string    `json:"prompt"`
	Score          int       `json:"score"`
	QuestionNumber int       `json:"questionNumber"`
	MaxQuestions   int       `json:"maxQuestions"`
	Outcome        *Outcome  `json:"outcome,omitempty"`
	Notice         *Notice   `json:"notice,omitempty"`
	Selected       int       `json:"selected"` // tapped option while its notice is pending, else -1
}

// GameState is the complete engine state, as kept by game stores.
type GameState struct {
	ID             string    `json:"id"`
	CatalogID      string    `json:"catalogId"`
	Pool           []Country `json:"pool"`
	CorrectIndex   int       `json:"correctIndex"`
	Score          int       `json:"score"`
	QuestionNumber int       `json:"questionNumber"`
	MaxQuestions   int       `json:"maxQuestions"`
	Pending        *Outcome  `json:"pending,omitempty"`
	Selected       int       `json:"selected"`
}
