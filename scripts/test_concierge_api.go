//go:build ignore

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

func ask(sessionID, text string) (map[string]interface{}, error) {
	body, _ := json.Marshal(map[string]string{
		"session_id": sessionID,
		"text":       text,
	})

	resp, err := http.Post(baseURL+"/concierge/ask", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var out map[string]interface{}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func main() {
	color.Cyan("🚀 Concierge conversation smoke test\n")

	turn := func(session, label, text string) {
		color.Yellow("\n[%s] %s", label, text)
		res, err := ask(session, text)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		prettyPrint(res)
	}

	// Direct facility question, no ambiguity
	turn("smoke-1", "FACILITY", "地下の会議室はどこですか?")

	// Request type beats the generic room keyword
	turn("smoke-1", "BUSINESS", "2階の有料会議室の料金を教えて")

	// Ambiguous cafe question, then the follow-up that resolves it
	turn("smoke-2", "AMBIGUOUS", "カフェの営業時間は?")
	turn("smoke-2", "RESOLVE", "コトリの方")

	// Elliptical follow-up inherits the hours request type
	turn("smoke-2", "ELLIPTICAL", "土曜日も?")

	color.Green("\n✅ Done")
}
