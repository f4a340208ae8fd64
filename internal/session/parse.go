package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// headReadLimit bounds how much of a log QuickMeta reads. Session logs can
// run to hundreds of MB; the identifying fields always appear near the top.
const headReadLimit = 32 * 1024

// jsonlRecord covers the fields we care about across record types.
// Everything else in a line is ignored.
type jsonlRecord struct {
	SessionID string          `json:"sessionId"`
	Type      string          `json:"type"`
	CWD       string          `json:"cwd"`
	Timestamp string          `json:"timestamp"`
	Message   json.RawMessage `json:"message"`
}

type recordMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// contentBlock is one element of an array-form message content.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// QuickMeta extracts id, working directory and start time from the head of
// a session log. Best-effort: malformed lines are skipped, and a log that
// yields no session id falls back to the file's relative path with
// IDFromPath set.
func QuickMeta(ref FileRef) (Meta, error) {
	f, err := os.Open(ref.Path)
	if err != nil {
		return Meta{}, fmt.Errorf("open session log: %w", err)
	}
	defer f.Close()

	meta := Meta{}
	sc := bufio.NewScanner(io.LimitReader(f, headReadLimit))
	sc.Buffer(make([]byte, 0, 32*1024), headReadLimit)

	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec jsonlRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if meta.ID == "" && rec.SessionID != "" {
			meta.ID = rec.SessionID
		}
		if meta.WorkingDir == "" && rec.CWD != "" {
			meta.WorkingDir = rec.CWD
		}
		if meta.StartedAt.IsZero() && rec.Timestamp != "" {
			if ts, err := time.Parse(time.RFC3339, rec.Timestamp); err == nil {
				meta.StartedAt = ts
			}
		}
		if meta.ID != "" && meta.WorkingDir != "" && !meta.StartedAt.IsZero() {
			break
		}
	}

	if meta.ID == "" {
		meta.ID = ref.RelPath
		meta.IDFromPath = true
	}
	return meta, nil
}

// FullParse reads the whole log and returns its dialog turns in order.
// Tool results and other non-dialog records are dropped. Malformed lines
// are skipped rather than failing the parse.
func FullParse(path string) ([]DialogTurn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session log: %w", err)
	}
	defer f.Close()

	var turns []DialogTurn
	sc := bufio.NewScanner(f)
	// Tool outputs can produce very long lines.
	sc.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec jsonlRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}

		var role Role
		switch rec.Type {
		case "user", "user_message":
			role = RoleUser
		case "assistant", "assistant_message":
			role = RoleAssistant
		default:
			continue
		}

		if len(rec.Message) == 0 {
			continue
		}
		var msg recordMessage
		if err := json.Unmarshal(rec.Message, &msg); err != nil {
			continue
		}
		text, isToolResult := extractContent(msg.Content)
		if isToolResult || text == "" {
			continue
		}

		var ts time.Time
		if rec.Timestamp != "" {
			ts, _ = time.Parse(time.RFC3339, rec.Timestamp)
		}
		turns = append(turns, DialogTurn{Role: role, Text: text, Timestamp: ts})
	}

	if err := sc.Err(); err != nil {
		// Return what we managed to parse; the caller treats turns as
		// best-effort preview material.
		return turns, fmt.Errorf("scan session log: %w", err)
	}
	return turns, nil
}

// extractContent flattens message content, which is either a plain string
// or an array of typed blocks. Returns the text and whether the content is
// exclusively tool results.
func extractContent(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str, false
	}

	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return "", false
	}

	text := ""
	sawToolResult := false
	for _, b := range blocks {
		switch b.Type {
		case "text":
			if b.Text == "" {
				continue
			}
			if text != "" {
				text += "\n"
			}
			text += b.Text
		case "tool_result", "tool_use":
			sawToolResult = true
		}
	}
	return text, text == "" && sawToolResult
}
