package ai

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Prompt template names.
const (
	PromptExplainer = "Explainer Script"
	PromptBriefing  = "One Sheet Briefing"
	PromptUSFilter  = "US Article Filter"
)

// PromptSet holds the prompt templates by name. Templates carry
// {placeholder} markers filled in by Render.
type PromptSet map[string]string

// FallbackPrompts returns the compiled-in prompt templates used when no
// prompt sheet is configured or the configured sheet cannot be read.
func FallbackPrompts() PromptSet {
	return PromptSet{
		PromptExplainer: "You are a U.S.-based political journalist creating a 60-second " +
			"daily briefing for an audience deeply concerned with American " +
			"democracy. Write a concise, compelling script summarizing the " +
			"top U.S. democracy-impacting news of the day. Start with " +
			"'Today in American democracy...' and prioritize 3-4 stories. " +
			"Spreadsheet input: {summaries_text}",
		PromptBriefing: "Create a comprehensive one-sheet briefing document covering " +
			"the most critical democracy-related news. Organize into " +
			"thematic sections and focus on democratic institutions impact. " +
			"Spreadsheet input: {summaries_text}",
		PromptUSFilter: "Determine if this news article is about United States domestic " +
			"news or politics. Return 'YES' for US domestic news, 'NO' for " +
			"international. Article: Headline: {headline}, " +
			"Summary: {summary}, Source: {source}",
	}
}

// Render substitutes {name} placeholders in the named template. A missing
// template falls back to the compiled-in one.
func (p PromptSet) Render(name string, vars map[string]string) string {
	template, ok := p[name]
	if !ok || template == "" {
		template = FallbackPrompts()[name]
	}
	for k, v := range vars {
		template = strings.ReplaceAll(template, "{"+k+"}", v)
	}
	return template
}

var promptHeader = []string{"Prompt Name", "Prompt Text", "Active"}

// LoadPrompts reads a "Prompt Name,Prompt Text,Active" CSV sheet. Inactive
// rows are skipped; names not present in the sheet keep their fallback.
// Any read failure degrades to the fallback set with a warning.
func LoadPrompts(path string, logger *slog.Logger) PromptSet {
	if path == "" {
		return FallbackPrompts()
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Warn("prompt sheet unavailable, using fallback prompts", "path", path, "error", err)
		return FallbackPrompts()
	}
	defer f.Close()

	prompts, err := parsePrompts(f)
	if err != nil {
		logger.Warn("prompt sheet unreadable, using fallback prompts", "path", path, "error", err)
		return FallbackPrompts()
	}

	merged := FallbackPrompts()
	for name, text := range prompts {
		merged[name] = text
	}
	logger.Info("prompts loaded", "path", path, "count", len(prompts))
	return merged
}

func parsePrompts(r io.Reader) (PromptSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < len(promptHeader) {
		return nil, fmt.Errorf("expected header %v, got %v", promptHeader, header)
	}
	for i, want := range promptHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return nil, fmt.Errorf("expected header %v, got %v", promptHeader, header)
		}
	}

	prompts := make(PromptSet)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) < 3 || !strings.EqualFold(strings.TrimSpace(row[2]), "TRUE") {
			continue
		}
		name := strings.TrimSpace(row[0])
		text := row[1]
		if name != "" && text != "" {
			prompts[name] = text
		}
	}
	return prompts, nil
}
