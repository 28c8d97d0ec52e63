package quizgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/lehoangnam2310/lectureflow/internal/config"
	"github.com/lehoangnam2310/lectureflow/internal/logger"
	"github.com/lehoangnam2310/lectureflow/pkg/quiz"
)

const validQuizJSON = `{
	"quiz_title": "Cell Biology",
	"questions": [
		{
			"question_number": 1,
			"question_text": "What is the powerhouse of the cell?",
			"question_type": "mcq",
			"options": {"A": "Mitochondria", "B": "Nucleus", "C": "Ribosome", "D": "Golgi"},
			"correct_answer": "A",
			"explanation": "Mitochondria produce ATP."
		}
	]
}`

type fakeChatClient struct {
	content string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (f *fakeChatClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Paths: config.PathsConfig{Upload: "uploads", Output: "outputs"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func newTestGenerator(t *testing.T, client chatClient) Generator {
	t.Helper()
	return newWithClient(client, testConfig(t), logger.New("error", "text"))
}

func TestGenerate(t *testing.T) {
	client := &fakeChatClient{content: validQuizJSON}
	g := newTestGenerator(t, client)

	q, truncated, err := g.Generate(context.Background(), "short transcript", Params{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if truncated {
		t.Error("short transcript should not be truncated")
	}
	if q.Title != "Cell Biology" {
		t.Errorf("Title = %q", q.Title)
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}

	// Defaults are embedded into the request prompt
	userPrompt := client.lastReq.Messages[1].Content
	if !strings.Contains(userPrompt, "create 5 ") {
		t.Errorf("prompt does not carry the default question count:\n%s", userPrompt)
	}
	if !strings.Contains(userPrompt, "medium difficulty") {
		t.Errorf("prompt does not carry the default difficulty:\n%s", userPrompt)
	}
}

func TestGenerateFencedResponse(t *testing.T) {
	client := &fakeChatClient{content: "```json\n" + validQuizJSON + "\n```"}
	g := newTestGenerator(t, client)

	q, _, err := g.Generate(context.Background(), "transcript", Params{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
}

func TestGenerateMalformedResponse(t *testing.T) {
	client := &fakeChatClient{content: "Sorry, I cannot generate a quiz right now."}
	g := newTestGenerator(t, client)

	_, _, err := g.Generate(context.Background(), "transcript", Params{})

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Generate() error = %v, want *ParseError", err)
	}
	if !strings.Contains(parseErr.Raw, "Sorry") {
		t.Errorf("ParseError.Raw = %q, want the offending text", parseErr.Raw)
	}
}

func TestGenerateMissingQuestionsKey(t *testing.T) {
	client := &fakeChatClient{content: `{"quiz_title": "Empty"}`}
	g := newTestGenerator(t, client)

	_, _, err := g.Generate(context.Background(), "transcript", Params{})

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Generate() error = %v, want *ParseError", err)
	}
}

func TestGenerateDanglingCorrectAnswer(t *testing.T) {
	bad := strings.Replace(validQuizJSON, `"correct_answer": "A"`, `"correct_answer": "E"`, 1)
	client := &fakeChatClient{content: bad}
	g := newTestGenerator(t, client)

	_, _, err := g.Generate(context.Background(), "transcript", Params{})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Generate() error = %v, want *ValidationError", err)
	}
}

func TestGenerateCollaboratorFailure(t *testing.T) {
	client := &fakeChatClient{err: fmt.Errorf("upstream timeout")}
	g := newTestGenerator(t, client)

	if _, _, err := g.Generate(context.Background(), "transcript", Params{}); err == nil {
		t.Error("Generate() should surface collaborator errors")
	}
}

func TestGenerateTruncatesOversizedTranscript(t *testing.T) {
	client := &fakeChatClient{content: validQuizJSON}
	g := newTestGenerator(t, client)

	long := strings.Repeat("the krebs cycle produces ATP ", 1000)
	q, truncated, err := g.Generate(context.Background(), long, Params{NumQuestions: 3})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !truncated {
		t.Error("oversized transcript should report truncation")
	}
	if q == nil {
		t.Error("truncation must still produce a quiz")
	}
	if len(client.lastReq.Messages[1].Content) > 10000 {
		t.Errorf("prompt is %d chars, budget 10000", len(client.lastReq.Messages[1].Content))
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading whitespace", "  ```json\n{\"a\": 1}\n``` ", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.in); got != tt.want {
				t.Errorf("stripCodeFences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseQuizTypes(t *testing.T) {
	raw := `{
		"quiz_title": "Mixed",
		"questions": [
			{"question_number": 1, "question_text": "Q1?", "question_type": "true_false", "correct_answer": "true"},
			{"question_number": 2, "question_text": "Q2?", "question_type": "short_answer", "correct_answer": "osmosis"}
		]
	}`

	q, err := parseQuiz(raw)
	if err != nil {
		t.Fatalf("parseQuiz() error = %v", err)
	}
	if q.Questions[0].Type != quiz.TypeTrueFalse {
		t.Errorf("Type = %v, want true_false", q.Questions[0].Type)
	}
}
