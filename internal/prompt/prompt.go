// Package prompt builds LLM prompts that describe a dataset by its schema and
// a few sample rows.
package prompt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"boardroom/domain/dataset"
)

// SampleRows is how many leading rows accompany the schema
const SampleRows = 3

const (
	NumericQuestionsTemplate = "numeric_questions"
	AnswerTemplate           = "answer"
)

var builtin = map[string]string{
	NumericQuestionsTemplate: `You are a corporate data analyst. The dataset has columns: {SCHEMA}.
Sample rows: {SAMPLE}

Suggest five business questions about this dataset that can each be answered with a single number.
Return one question per line with no commentary.`,
	AnswerTemplate: `You are a corporate data analyst. The dataset has columns: {SCHEMA}.
Sample rows: {SAMPLE}

Answer the question below using only this dataset. If the columns cannot answer it, say which data is missing.
Question: {QUESTION}`,
}

// Manager renders prompt templates. Templates are read from Dir as
// <name>.txt when present, otherwise the built-in text is used.
type Manager struct {
	Dir string
}

// NewManager creates a manager; an empty dir uses only built-in templates
func NewManager(dir string) *Manager {
	return &Manager{Dir: dir}
}

// Load returns the template text for name
func (m *Manager) Load(name string) (string, error) {
	if m != nil && m.Dir != "" {
		content, err := os.ReadFile(filepath.Join(m.Dir, name+".txt"))
		if err == nil {
			return string(content), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to load prompt %s: %w", name, err)
		}
	}
	if t, ok := builtin[name]; ok {
		return t, nil
	}
	return "", fmt.Errorf("prompt template not found: %s", name)
}

// Render replaces {PLACEHOLDER} with values
func (m *Manager) Render(name string, replacements map[string]string) (string, error) {
	template, err := m.Load(name)
	if err != nil {
		return "", err
	}
	result := template
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, "{"+placeholder+"}", value)
	}
	return result, nil
}

// Context returns the schema line and the JSON encoded sample rows
func Context(ds *dataset.Dataset, sampleRows int) (schema, sample string, err error) {
	schema = strings.Join(ds.Names(), ", ")
	raw, err := json.Marshal(ds.Records(sampleRows))
	if err != nil {
		return "", "", fmt.Errorf("encode sample rows: %w", err)
	}
	return schema, string(raw), nil
}

// NumericQuestions asks the model for questions with numeric answers
func (m *Manager) NumericQuestions(ds *dataset.Dataset) (string, error) {
	schema, sample, err := Context(ds, SampleRows)
	if err != nil {
		return "", err
	}
	return m.Render(NumericQuestionsTemplate, map[string]string{"SCHEMA": schema, "SAMPLE": sample})
}

// Answer asks the model a question about the dataset
func (m *Manager) Answer(ds *dataset.Dataset, question string) (string, error) {
	schema, sample, err := Context(ds, SampleRows)
	if err != nil {
		return "", err
	}
	return m.Render(AnswerTemplate, map[string]string{
		"SCHEMA":   schema,
		"SAMPLE":   sample,
		"QUESTION": strings.TrimSpace(question),
	})
}

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)

// ParseQuestions splits a model answer into one question per non-empty line,
// dropping list markers
func ParseQuestions(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		q := strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if q != "" {
			out = append(out, q)
		}
	}
	return out
}
