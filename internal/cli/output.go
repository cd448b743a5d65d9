package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		o.printSession(v)
	case ResolveResult:
		o.printResolveResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

// Session response type
type Session struct {
	ID             string   `json:"id"`
	RoomCode       string   `json:"roomCode"`
	Status         string   `json:"status"`
	InitialBalance int64    `json:"initialBalance"`
	BankBalance    int64    `json:"bankBalance"`
	Players        []Player `json:"players"`
}

// ResolveResult response type
type ResolveResult struct {
	SessionID string `json:"session_id"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.ID)
	fmt.Printf("Room Code: %s\n", s.RoomCode)
	fmt.Printf("Status: %s\n", s.Status)
	fmt.Printf("Bank: %d\n", s.BankBalance)
	fmt.Printf("Players (%d):\n", len(s.Players))
	for _, p := range s.Players {
		fmt.Printf("  - %s (%s): %d\n", p.Name, p.ID, p.Balance)
	}
}

func (o *Output) printResolveResult(r ResolveResult) {
	fmt.Printf("Session: %s\n", r.SessionID)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
