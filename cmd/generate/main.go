package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
)

type generateRequest struct {
	SessionId  string `json:"session_id,omitempty"`
	UserPrompt string `json:"user_prompt"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:3000/api", "API base URL")
	session := flag.String("session", "", "session id (generated by the server when empty)")
	out := flag.String("out", ".", "directory the model is written to")
	flag.Parse()

	prompt := flag.Arg(0)
	if prompt == "" {
		color.Red("usage: generate [-url URL] [-session ID] [-out DIR] \"your idea\"")
		os.Exit(2)
	}

	color.Cyan("🚀 Generating 3D model for: %q\n", prompt)
	start := time.Now()

	body, _ := json.Marshal(generateRequest{SessionId: *session, UserPrompt: prompt})
	req, err := http.NewRequest(http.MethodPost, *baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // No timeout, the server enforces the pipeline deadline
	resp, err := client.Do(req)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		color.Red("Failed to read response: %v", err)
		os.Exit(1)
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			color.Red("Status: %s (%s)", resp.Status, e.Kind)
			color.Red("%s", e.Error)
		} else {
			color.Red("Status: %s\n%s", resp.Status, string(respBody))
		}
		os.Exit(1)
	}

	fileName := "model.glb"
	path := filepath.Join(*out, fileName)
	if err := os.WriteFile(path, respBody, 0o644); err != nil {
		color.Red("Failed to save model: %v", err)
		os.Exit(1)
	}

	color.Green("Status: %s", resp.Status)
	fmt.Printf("Session: %s\n", resp.Header.Get("X-Session-Id"))
	fmt.Printf("Saved %d bytes to %s in %s\n", len(respBody), path, time.Since(start).Round(time.Millisecond))
	color.Yellow("Reuse the session with -session %s to reference this model (e.g. \"like the one before\")", resp.Header.Get("X-Session-Id"))
}
