package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/lehoangnam2310/lectureflow/pkg/quiz"
)

const systemPrompt = "You are an expert educator creating high-quality assessment questions. Always respond with valid JSON."

const quizPromptTemplate = `You are an expert teacher creating educational assessments.

Based on the following transcript, create %d %s
at a %s difficulty level focusing on %s.

Transcript:
"""%s"""

Format your response as valid JSON with the following structure:
{
    "quiz_title": "Quiz Title Based on Content",
    "questions": [
        {
            "question_number": 1,
            "question_text": "Question text here?",
            "question_type": "mcq",
            "options": {
                "A": "Option A text",
                "B": "Option B text",
                "C": "Option C text",
                "D": "Option D text"
            },
            "correct_answer": "A",
            "explanation": "Brief explanation of why this is correct"
        }
    ]
}

Ensure questions are:
- Directly relevant to the transcript content
- Clear and unambiguous
- At the appropriate difficulty level
- Engaging and educational

Return ONLY the JSON object, no additional text.`

// instructionRoom is how many characters are reserved for the prompt
// instructions when an oversized transcript has to be cut.
const instructionRoom = 2000

var questionTypeInstructions = map[string]string{
	"mcq":          "multiple-choice questions with 4 options each (A, B, C, D). Mark the correct answer.",
	"true_false":   "true/false questions with explanations.",
	"short_answer": "short answer questions that test understanding.",
	"mixed":        "a mix of multiple-choice, true/false, and short answer questions.",
}

var difficultyInstructions = map[string]string{
	"easy":   "basic recall and understanding",
	"medium": "application and analysis",
	"hard":   "synthesis and evaluation",
}

// Generate builds the generation prompt, calls the collaborator, and parses
// and validates the returned quiz. A parse or validation failure aborts this
// stage only; the raw response travels with the error for diagnostics.
func (g *implGenerator) Generate(ctx context.Context, transcript string, p Params) (*quiz.Quiz, bool, error) {
	p = g.applyDefaults(p)

	prompt, truncated := buildQuizPrompt(transcript, p, g.charBudget)
	if truncated {
		g.logger.Warn(ctx, "Transcript truncated to fit %d char quiz budget", g.charBudget)
	}

	g.logger.Info(ctx, "Generating quiz: %d questions, %s difficulty, %s",
		p.NumQuestions, p.Difficulty, p.QuestionType)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		return nil, truncated, fmt.Errorf("quiz generation: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, truncated, &ParseError{Err: fmt.Errorf("empty completion response")}
	}

	q, err := parseQuiz(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, truncated, err
	}

	return q, truncated, nil
}

func (g *implGenerator) applyDefaults(p Params) Params {
	if p.NumQuestions <= 0 {
		p.NumQuestions = g.defaults.DefaultQuestions
	}
	if p.Difficulty == "" {
		p.Difficulty = g.defaults.DefaultDifficulty
	}
	if p.QuestionType == "" {
		p.QuestionType = g.defaults.DefaultType
	}
	return p
}

// buildQuizPrompt assembles the prompt and cuts the transcript when the
// assembled prompt exceeds the character budget.
func buildQuizPrompt(transcript string, p Params, charBudget int) (string, bool) {
	typeInstruction, ok := questionTypeInstructions[p.QuestionType]
	if !ok {
		typeInstruction = questionTypeInstructions["mcq"]
	}
	difficultyInstruction, ok := difficultyInstructions[p.Difficulty]
	if !ok {
		difficultyInstruction = difficultyInstructions["medium"]
	}

	assemble := func(text string) string {
		return fmt.Sprintf(quizPromptTemplate, p.NumQuestions, typeInstruction, p.Difficulty, difficultyInstruction, text)
	}

	prompt := assemble(transcript)
	if len(prompt) <= charBudget {
		return prompt, false
	}

	cut := charBudget - instructionRoom
	if cut < 0 {
		cut = 0
	}
	if cut > len(transcript) {
		cut = len(transcript)
	}

	return assemble(transcript[:cut]), true
}

// parseQuiz strips optional markdown code fences, parses the JSON object,
// and checks the quiz invariants.
func parseQuiz(raw string) (*quiz.Quiz, error) {
	cleaned := stripCodeFences(raw)

	var probe struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	if probe.Questions == nil {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("response missing questions key")}
	}

	var q quiz.Quiz
	if err := json.Unmarshal([]byte(cleaned), &q); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	if err := q.Validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}

	return &q, nil
}

// stripCodeFences removes the ```json / ``` markers the model sometimes
// wraps its output in.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}
