package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"project_assistant_backend/internal/util"
	"project_assistant_backend/pkg/logger"
	"project_assistant_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const ToolCodeSnippet = "code_snippet"

type CodeSnippet struct {
	Title              string `json:"title"`
	Code               string `json:"code"`
	Explanation        string `json:"explanation"`
	UsageExample       string `json:"usage_example"`
	ComplexityAnalysis string `json:"complexity_analysis,omitempty"`
	Dependencies       string `json:"dependencies,omitempty"`
}

type CodeSnippetResult struct {
	Snippet CodeSnippet `json:"snippet"`
	Source  string      `json:"source"`
}

type CodeSnippetService struct {
	AI *AIService
}

func NewCodeSnippetService(ai *AIService) *CodeSnippetService {
	return &CodeSnippetService{AI: ai}
}

var languageInstructions = map[string]string{
	"c":          "Include proper header files, main function, and comments. Show memory management if needed.",
	"python":     "Include error handling, docstrings, and examples.",
	"javascript": "Include ES6+ features, error handling, and browser/Node.js compatibility.",
	"java":       "Include proper class structure, error handling, and comments.",
	"cpp":        "Include proper includes, namespaces, and memory management.",
	"html":       "Include semantic HTML5, CSS integration, and comments.",
	"sql":        "Include proper syntax, error handling, and examples.",
}

func (s *CodeSnippetService) Generate(ctx context.Context, language, prompt, complexity string) CodeSnippetResult {
	if complexity == "" {
		complexity = "beginner"
	}

	content, err := s.AI.Chat(ctx, snippetPrompt(language, prompt, complexity), true)
	if err == nil {
		monitoring.RecordGeneration(ToolCodeSnippet, util.SourceAI)
		return CodeSnippetResult{Snippet: NormalizeSnippet(content, language, prompt), Source: util.SourceAI}
	}
	if !errors.Is(err, util.ErrAIUnavailable) {
		logger.Log.Warn("AI snippet generation failed, using template", zap.Error(err))
	}

	monitoring.RecordGeneration(ToolCodeSnippet, util.SourceFallback)
	return CodeSnippetResult{Snippet: FallbackSnippet(language, prompt), Source: util.SourceFallback}
}

type rawSnippet struct {
	Title              FlexString `json:"title"`
	Code               FlexString `json:"code"`
	Snippet            FlexString `json:"snippet"`
	Explanation        FlexString `json:"explanation"`
	UsageExample       FlexString `json:"usage_example"`
	Example            FlexString `json:"example"`
	ComplexityAnalysis FlexString `json:"complexity_analysis"`
	Dependencies       FlexString `json:"dependencies"`
}

// NormalizeSnippet 把模型的各种返回统一成 CodeSnippet
func NormalizeSnippet(content, language, prompt string) CodeSnippet {
	lang := util.TitleCase(language)

	raw, err := ExtractJSON(content)
	var data rawSnippet
	if err != nil || json.Unmarshal(raw, &data) != nil {
		return CodeSnippet{
			Title:        fmt.Sprintf("%s Code for: %s", lang, prompt),
			Code:         content,
			Explanation:  fmt.Sprintf("This %s code implements the requested functionality.", language),
			UsageExample: "# Usage example\n# Call the main function or use as shown above",
		}
	}

	snippet := CodeSnippet{
		Title:              firstNonEmpty(string(data.Title), lang+" Implementation"),
		Code:               firstNonEmpty(string(data.Code), string(data.Snippet)),
		Explanation:        string(data.Explanation),
		UsageExample:       firstNonEmpty(string(data.UsageExample), string(data.Example)),
		ComplexityAnalysis: string(data.ComplexityAnalysis),
		Dependencies:       string(data.Dependencies),
	}
	if snippet.Code == "" {
		snippet.Code = fmt.Sprintf("# %s code for: %s\n# Implementation details here", language, prompt)
	}
	return snippet
}

// FallbackSnippet 未知语言按 javascript 模板处理
func FallbackSnippet(language, prompt string) CodeSnippet {
	var snippet CodeSnippet
	switch strings.ToLower(language) {
	case "python":
		snippet = CodeSnippet{
			Code:         fmt.Sprintf("# %[1]s - Python\ndef main():\n    print('Implementation for: %[1]s')\n    # Add your code here\n\nif __name__ == '__main__':\n    main()", prompt),
			Explanation:  "Python function structure for implementing " + prompt,
			UsageExample: "# Call the function\nmain()",
		}
	case "html":
		snippet = CodeSnippet{
			Code:         fmt.Sprintf("<!-- %[1]s - HTML -->\n<!DOCTYPE html>\n<html>\n<head>\n    <title>Implementation</title>\n    <style>\n        /* CSS for %[1]s */\n    </style>\n</head>\n<body>\n    <!-- Implementation here -->\n</body>\n</html>", prompt),
			Explanation:  "HTML/CSS structure for implementing " + prompt,
			UsageExample: "<!-- Save as index.html and open in browser -->",
		}
	default:
		snippet = CodeSnippet{
			Code:         fmt.Sprintf("// %[1]s - JavaScript\nfunction main() {\n    console.log('Implementation for: %[1]s');\n    // Add your code here\n}\n\n// Usage\nmain();", prompt),
			Explanation:  "Basic JavaScript structure for implementing " + prompt,
			UsageExample: "// Call the function\nmain();",
		}
	}
	snippet.Title = fmt.Sprintf("%s Code for: %s", util.TitleCase(language), prompt)
	return snippet
}

func snippetPrompt(language, prompt, complexity string) string {
	instruction, ok := languageInstructions[strings.ToLower(language)]
	if !ok {
		instruction = "Include proper syntax and comments."
	}
	return fmt.Sprintf(`Generate a %s level %s code snippet for: "%s"

Requirements:
1. Clean, well-commented code
2. %s
3. Error handling where appropriate
4. Usage examples
5. Brief explanation of the code
6. Performance considerations if applicable

Return as JSON with these fields:
{
    "title": "Descriptive title",
    "code": "The complete code with comments",
    "explanation": "Brief explanation of what the code does",
    "usage_example": "Example of how to use/run the code",
    "complexity_analysis": "Time/Space complexity if applicable",
    "dependencies": "Any libraries/frameworks needed"
}`, complexity, language, prompt, instruction)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
