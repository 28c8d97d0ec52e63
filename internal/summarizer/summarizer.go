package summarizer

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const summaryPromptTemplate = `You are an expert at summarizing educational video content.

Your task is to analyze the following video transcript and create %s.

Focus on:
- Main topics and key concepts
- Important explanations or definitions
- Critical insights or conclusions
- Any actionable information

Transcript:
"""%s"""

Provide a clear, well-structured summary that captures the essence of the video content.`

const keyConceptsPromptTemplate = `Extract the %d most important concepts or topics from this transcript.
List them as a numbered list.

Transcript: %s

Key Concepts:`

// instructionRoom is how many characters are reserved for the prompt
// instructions when an oversized transcript has to be cut.
const instructionRoom = 1000

// keyConceptsInputCap bounds the transcript slice sent for concept extraction.
const keyConceptsInputCap = 8000

var lengthInstructions = map[string]string{
	"short":  "3-5 concise bullet points",
	"medium": "a comprehensive paragraph of 150-200 words",
	"long":   "a detailed summary with multiple paragraphs (300-400 words)",
}

// Summarize generates a summary of the transcript in the requested length
// mode. Transcripts that blow the prompt budget are cut by raw character
// count and the cut is reported through the truncated flag.
func (s *implSummarizer) Summarize(ctx context.Context, transcript, length string) (string, bool, error) {
	prompt, truncated := buildSummaryPrompt(transcript, length, s.charBudget)
	if truncated {
		s.logger.Warn(ctx, "Transcript truncated to fit %d char summary budget", s.charBudget)
	}

	summary, err := s.callGemini(ctx, prompt)
	if err != nil {
		return "", truncated, fmt.Errorf("generate summary: %w", err)
	}

	return strings.TrimSpace(summary), truncated, nil
}

// ExtractKeyConcepts pulls the most important concepts from the transcript
// as a numbered list.
func (s *implSummarizer) ExtractKeyConcepts(ctx context.Context, transcript string, numConcepts int) (string, error) {
	if numConcepts <= 0 {
		numConcepts = 5
	}

	if len(transcript) > keyConceptsInputCap {
		transcript = transcript[:keyConceptsInputCap]
	}

	prompt := fmt.Sprintf(keyConceptsPromptTemplate, numConcepts, transcript)

	concepts, err := s.callGemini(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("extract key concepts: %w", err)
	}

	return strings.TrimSpace(concepts), nil
}

// buildSummaryPrompt assembles the prompt and cuts the transcript when the
// assembled prompt exceeds the character budget.
func buildSummaryPrompt(transcript, length string, charBudget int) (string, bool) {
	instruction, ok := lengthInstructions[length]
	if !ok {
		instruction = lengthInstructions["medium"]
	}

	prompt := fmt.Sprintf(summaryPromptTemplate, instruction, transcript)
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

	return fmt.Sprintf(summaryPromptTemplate, instruction, transcript[:cut]), true
}

// callGemini sends the prompt to Gemini and returns the response text.
// Rotates API keys on 429 / quota errors.
func (s *implSummarizer) callGemini(ctx context.Context, prompt string) (string, error) {
	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		key := s.pickKey()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				s.logger.Warn(ctx, "Gemini key rate limited, rotating...")
				s.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return text, nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (s *implSummarizer) pickKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKeys[s.currentKey]
}

func (s *implSummarizer) rotateKey() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
}
