package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Chat roles accepted on the chat endpoint
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of the conversation sent by the client. An empty
// role is treated as RoleUser.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ExchangeLog is the transcript of one chat request: the query, the cases it
// resolved to, the context handed to the model and every streamed chunk.
type ExchangeLog struct {
	ID             uuid.UUID    `json:"id"`
	Query          string       `json:"query"`
	Cases          []CaseRecord `json:"cases"`
	FormattedCases string       `json:"formatted_cases"`
	Chunks         []string     `json:"-"`
	StartedAt      time.Time    `json:"started_at"`
}

// Response returns the concatenation of all streamed chunks
func (e *ExchangeLog) Response() string {
	return strings.Join(e.Chunks, "")
}

// Render produces the plain-text log file body
func (e *ExchangeLog) Render() string {
	var b strings.Builder

	cases := e.Cases
	if cases == nil {
		cases = []CaseRecord{}
	}
	casesJSON, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		casesJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	fmt.Fprintf(&b, "Query: %s\n\n", e.Query)
	fmt.Fprintf(&b, "Cases: %s\n\n", casesJSON)
	fmt.Fprintf(&b, "Formatted Cases: %s\n\n", e.FormattedCases)
	for _, chunk := range e.Chunks {
		b.WriteString(chunk)
	}
	fmt.Fprintf(&b, "\n\nFull Response: %s\n", e.Response())

	return b.String()
}
