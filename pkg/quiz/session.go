package quiz

import "fmt"

// ErrSubmitted is returned when an answer is selected after submission.
var ErrSubmitted = fmt.Errorf("quiz already submitted")

// Session tracks a user's in-progress answers for one quiz. Answers are
// keyed by question index, mutable only before Submit, and cleared by Reset.
// The underlying quiz is never modified, so the same quiz can be retaken.
type Session struct {
	quiz      *Quiz
	answers   map[int]string
	submitted bool
}

// NewSession creates a fresh answering session for the given quiz.
func NewSession(q *Quiz) *Session {
	return &Session{
		quiz:    q,
		answers: make(map[int]string),
	}
}

// Select records the answer for the question at index i. Re-selecting
// overwrites the previous choice. Selection is rejected after submission.
func (s *Session) Select(i int, answer string) error {
	if s.submitted {
		return ErrSubmitted
	}
	if i < 0 || i >= s.quiz.Len() {
		return fmt.Errorf("question index %d out of range [0, %d)", i, s.quiz.Len())
	}
	s.answers[i] = answer
	return nil
}

// Answer returns the recorded answer for question i, if any.
func (s *Session) Answer(i int) (string, bool) {
	answer, ok := s.answers[i]
	return answer, ok
}

// Answered returns how many questions currently have a recorded answer.
func (s *Session) Answered() int {
	return len(s.answers)
}

// Submitted reports whether the session has been locked by Submit.
func (s *Session) Submitted() bool {
	return s.submitted
}

// Submit locks the session and returns the score. Calling it again is a
// no-op that returns the same score.
func (s *Session) Submit() float64 {
	s.submitted = true
	return s.Score()
}

// Score is the fraction of questions answered correctly. Unanswered
// questions count as incorrect. An empty quiz scores zero.
func (s *Session) Score() float64 {
	total := s.quiz.Len()
	if total == 0 {
		return 0
	}

	correct := 0
	for i, question := range s.quiz.Questions {
		if answer, ok := s.answers[i]; ok && answer == question.CorrectAnswer {
			correct++
		}
	}

	return float64(correct) / float64(total)
}

// Reset clears all answers and returns the session to the answering state.
func (s *Session) Reset() {
	s.answers = make(map[int]string)
	s.submitted = false
}
