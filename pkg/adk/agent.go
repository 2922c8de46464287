package adk

import (
	"context"
	"fmt"
	"sort"

	"github.com/user/isocomply/pkg/logging"
)

// maxToolRounds bounds tool calls answered within a single Chat turn.
const maxToolRounds = 8

// Tool represents an executable action for the agent
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error)
	Schema() map[string]interface{} // JSON schema for arguments
}

// ToolCall represents a request from the LLM to execute a tool
type ToolCall struct {
	ToolName string
	Args     map[string]interface{}
}

// Message represents a chat message
type Message struct {
	Role    string // "user", "model", "function"
	Content string
}

// LLMProvider defines the interface for different AI models
type LLMProvider interface {
	GenerateResponse(ctx context.Context, history []Message, tools []Tool) (string, *ToolCall, error)
	ListModels(ctx context.Context) ([]string, error)
}

// Agent is the chat loop that lets a model call compliance tools
type Agent struct {
	llm          LLMProvider
	tools        map[string]Tool
	history      []Message
	systemPrompt string
}

// NewAgent creates a new agent with the given LLM provider
func NewAgent(llm LLMProvider) *Agent {
	return &Agent{
		llm:   llm,
		tools: make(map[string]Tool),
	}
}

// RegisterTool adds a tool to the agent's registry
func (a *Agent) RegisterTool(t Tool) {
	a.tools[t.Name()] = t
}

// SetSystemPrompt seeds the conversation with instructions. It replaces any
// previous system prompt and is sent ahead of the history on every turn.
func (a *Agent) SetSystemPrompt(prompt string) {
	a.systemPrompt = prompt
}

// History returns a copy of the conversation so far.
func (a *Agent) History() []Message {
	out := make([]Message, len(a.history))
	copy(out, a.history)
	return out
}

// toolList returns registered tools sorted by name.
func (a *Agent) toolList() []Tool {
	list := make([]Tool, 0, len(a.tools))
	for _, t := range a.tools {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

func (a *Agent) conversation() []Message {
	if a.systemPrompt == "" {
		return a.history
	}
	msgs := make([]Message, 0, len(a.history)+1)
	msgs = append(msgs, Message{Role: "user", Content: a.systemPrompt})
	return append(msgs, a.history...)
}

// Chat sends a message to the agent and returns the model's final answer,
// running any tools it requests along the way. A failed turn leaves the
// history as it was before the call.
func (a *Agent) Chat(ctx context.Context, input string, progress func(string)) (string, error) {
	start := len(a.history)
	a.history = append(a.history, Message{Role: "user", Content: input})
	tools := a.toolList()

	for round := 0; round < maxToolRounds; round++ {
		respText, toolCall, err := a.llm.GenerateResponse(ctx, a.conversation(), tools)
		if err != nil {
			a.history = a.history[:start]
			return "", err
		}

		if toolCall == nil {
			a.history = append(a.history, Message{Role: "model", Content: respText})
			return respText, nil
		}

		logging.Logger.Debugw("executing tool", "tool", toolCall.ToolName, "args", toolCall.Args)
		a.history = append(a.history, Message{
			Role:    "model",
			Content: fmt.Sprintf("I will call tool %s with args %v", toolCall.ToolName, toolCall.Args),
		})

		tool, exists := a.tools[toolCall.ToolName]
		if !exists {
			a.history = append(a.history, Message{Role: "function", Content: fmt.Sprintf("Error: Tool %s not found", toolCall.ToolName)})
			continue
		}

		result, err := tool.Execute(ctx, toolCall.Args, progress)
		if err != nil {
			result = fmt.Sprintf("Error executing tool: %v", err)
		}
		a.history = append(a.history, Message{
			Role:    "function",
			Content: fmt.Sprintf("Tool %s returned: %s", toolCall.ToolName, result),
		})
	}
	a.history = a.history[:start]
	return "", fmt.Errorf("model requested more than %d tool calls without answering", maxToolRounds)
}
