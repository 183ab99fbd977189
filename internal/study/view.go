package study

import "kelime/internal/models"

// View is the client-visible snapshot of a machine
type View struct {
	Mode       Mode           `json:"mode"`
	Epoch      uint64         `json:"epoch"`
	Quiz       *QuizView      `json:"quiz,omitempty"`
	Flashcards *FlashcardView `json:"flashcards,omitempty"`
}

// QuizView hides the answer of a question until it has been answered
type QuizView struct {
	Index         int      `json:"index"`
	Total         int      `json:"total"`
	Score         int      `json:"score"`
	Finished      bool     `json:"finished"`
	Question      string   `json:"question,omitempty"`
	Options       []string `json:"options,omitempty"`
	Answered      bool     `json:"answered"`
	Selected      string   `json:"selected,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

type FlashcardView struct {
	Index   int         `json:"index"`
	Total   int         `json:"total"`
	Flipped bool        `json:"flipped"`
	Card    models.Word `json:"card"`
}

// View returns a snapshot safe to send to the client
func (m *Machine) View() View {
	v := View{Mode: m.mode, Epoch: m.epoch}

	switch m.mode {
	case ModeQuizActive:
		q := m.questions[m.index]
		qv := &QuizView{
			Index:    m.index,
			Total:    len(m.questions),
			Score:    m.score,
			Question: q.Question,
			Options:  q.Options,
			Answered: m.answered,
		}
		if m.answered {
			qv.Selected = m.selected
			qv.CorrectAnswer = q.CorrectAnswer
			qv.Explanation = q.Explanation
		}
		v.Quiz = qv
	case ModeQuizFinished:
		v.Quiz = &QuizView{
			Index:    len(m.questions) - 1,
			Total:    len(m.questions),
			Score:    m.score,
			Finished: true,
		}
	case ModeFlashcards:
		v.Flashcards = &FlashcardView{
			Index:   m.cardIndex,
			Total:   len(m.cards),
			Flipped: m.flipped,
			Card:    m.cards[m.cardIndex],
		}
	}
	return v
}
