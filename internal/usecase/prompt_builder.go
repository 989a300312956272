package usecase

import (
	"fmt"
	"strings"
)

// NoAnswerSentinel is the literal sentence the generation model must return
// when the supplied context does not contain the answer.
const NoAnswerSentinel = "The answer is not in the context."

// PromptInput contains the pieces that feed into the prompt builder.
type PromptInput struct {
	Query string
	// Contexts are the passage texts, concatenated verbatim in order.
	Contexts []string
	// TargetLang optionally overrides the answer language; when empty the
	// model is told to answer in the language of the context.
	TargetLang string
}

// PromptBuilder builds the grounded-generation prompt sent to the LLM.
type PromptBuilder interface {
	Build(input PromptInput) (string, error)
}

// GroundedPromptBuilder composes a prompt that constrains the answer to the
// supplied context.
type GroundedPromptBuilder struct {
	additionalInstructions []string
}

// NewGroundedPromptBuilder creates a prompt builder with optional extra
// instructions appended.
func NewGroundedPromptBuilder(additionalInstructions ...string) PromptBuilder {
	return &GroundedPromptBuilder{
		additionalInstructions: additionalInstructions,
	}
}

// Build renders the prompt. Context passages are included verbatim; any
// truncation is the caller's responsibility.
func (b *GroundedPromptBuilder) Build(input PromptInput) (string, error) {
	if strings.TrimSpace(input.Query) == "" {
		return "", fmt.Errorf("query is required")
	}

	var sb strings.Builder
	sb.WriteString("Context:\n")
	for _, passage := range input.Contexts {
		sb.WriteString(passage)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Question: ")
	sb.WriteString(input.Query)
	sb.WriteString("\n\n")

	instructions := []string{
		"Answer the question using only the information given in the context above.",
		"Include one interesting incidental fact taken from the context in your answer.",
	}
	if input.TargetLang != "" {
		instructions = append(instructions, fmt.Sprintf("Answer in %s.", input.TargetLang))
	} else {
		instructions = append(instructions, "Answer in the language of the context.")
	}
	instructions = append(instructions, fmt.Sprintf("If the context does not contain the answer, reply with exactly this sentence and nothing else: %s", NoAnswerSentinel))
	instructions = append(instructions, b.additionalInstructions...)

	sb.WriteString("Instructions:\n")
	for _, inst := range instructions {
		sb.WriteString("- ")
		sb.WriteString(inst)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
