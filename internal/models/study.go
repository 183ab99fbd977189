package models

// WordAnalysis is the AI annotation of a single English word.
// Placeholder is set when the values are fallbacks rather than a real
// analysis.
type WordAnalysis struct {
	Turkish        string `json:"turkish"`
	Definition     string `json:"definition"`
	Example        string `json:"example"`
	ExampleTurkish string `json:"example_turkish"`
	Placeholder    bool   `json:"placeholder,omitempty"`
}

// QuizQuestion is one multiple-choice question of a generated quiz
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// HasOption reports whether opt is one of the question's options
func (q QuizQuestion) HasOption(opt string) bool {
	for _, o := range q.Options {
		if o == opt {
			return true
		}
	}
	return false
}
