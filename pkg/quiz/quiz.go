// Package quiz holds the generated quiz model and the client-side answer
// session. It has no service dependencies so UIs can embed it directly.
package quiz

import "fmt"

// QuestionType enumerates the supported question formats.
type QuestionType string

const (
	TypeMCQ         QuestionType = "mcq"
	TypeTrueFalse   QuestionType = "true_false"
	TypeShortAnswer QuestionType = "short_answer"
)

// Quiz is the structured result of a generation call.
type Quiz struct {
	Title     string     `json:"quiz_title"`
	Questions []Question `json:"questions"`
}

// Question is a single quiz item. Options is populated for MCQ questions
// only, keyed by answer letter.
type Question struct {
	Number        int               `json:"question_number"`
	Text          string            `json:"question_text"`
	Type          QuestionType      `json:"question_type"`
	Options       map[string]string `json:"options,omitempty"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation,omitempty"`
}

// Len returns the number of questions.
func (q *Quiz) Len() int {
	return len(q.Questions)
}

// Validate checks the structural invariants of a quiz: question numbers are
// unique and increasing, and every MCQ answer resolves to one of its options.
func (q *Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("quiz has no questions")
	}

	prev := 0
	for i, question := range q.Questions {
		if question.Number <= prev {
			return fmt.Errorf("question %d: number %d is not increasing (previous %d)", i+1, question.Number, prev)
		}
		prev = question.Number

		if question.Text == "" {
			return fmt.Errorf("question %d: empty question text", question.Number)
		}
		if question.CorrectAnswer == "" {
			return fmt.Errorf("question %d: missing correct answer", question.Number)
		}

		if question.Type != TypeMCQ {
			continue
		}

		if len(question.Options) < 2 || len(question.Options) > 4 {
			return fmt.Errorf("question %d: mcq must have 2-4 options, got %d", question.Number, len(question.Options))
		}
		if _, ok := question.Options[question.CorrectAnswer]; !ok {
			return fmt.Errorf("question %d: correct answer %q is not among options", question.Number, question.CorrectAnswer)
		}
	}

	return nil
}
