package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

const defaultBaseURL = "http://localhost:3000/api/conversation/v1"

type turnRequest struct {
	SessionId  string `json:"session_id"`
	CustomerId string `json:"customer_id"`
	Utterance  string `json:"utterance"`
}

type turnResponse struct {
	Data struct {
		Reply       string `json:"reply"`
		State       string `json:"state"`
		OrderNumber string `json:"order_number"`
		Candidates  []struct {
			Code      string  `json:"code"`
			Name      string  `json:"name"`
			UnitPrice float64 `json:"unit_price"`
			Score     float64 `json:"score"`
			MatchKind string  `json:"match_kind"`
		} `json:"candidates"`
	} `json:"data"`
}

func main() {
	baseURL := defaultBaseURL
	if v := os.Getenv("SIMULATE_BASE_URL"); v != "" {
		baseURL = v
	}

	sessionId := uuid.NewString()

	header := color.New(color.FgCyan, color.Bold)
	header.Println("=== Conversation Simulation Client ===")
	fmt.Printf("Session: %s\n", sessionId)
	fmt.Println("Type a message, or 'exit' to quit.")

	userColor := color.New(color.FgGreen, color.Bold)
	botColor := color.New(color.FgYellow)
	metaColor := color.New(color.FgHiBlack)
	orderColor := color.New(color.FgMagenta, color.Bold)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		userColor.Print("\nYOU> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" {
			break
		}

		start := time.Now()
		resp, err := sendTurn(baseURL, sessionId, text)
		elapsed := time.Since(start)
		if err != nil {
			color.Red("Error: %v", err)
			continue
		}

		botColor.Printf("BOT> %s\n", resp.Data.Reply)
		metaColor.Printf("     [state=%s, %s]\n", resp.Data.State, elapsed.Round(time.Millisecond))

		for _, c := range resp.Data.Candidates {
			metaColor.Printf("     - %s %s (%.2f TL, score %.2f, %s)\n",
				c.Code, c.Name, c.UnitPrice, c.Score, c.MatchKind)
		}
		if resp.Data.OrderNumber != "" {
			orderColor.Printf("     ORDER PLACED: %s\n", resp.Data.OrderNumber)
		}
	}
}

func sendTurn(baseURL, sessionId, text string) (*turnResponse, error) {
	payload, err := json.Marshal(turnRequest{
		SessionId:  sessionId,
		CustomerId: "simulation",
		Utterance:  text,
	})
	if err != nil {
		return nil, err
	}

	httpResp, err := http.Post(baseURL+"/turn", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", httpResp.StatusCode, string(body))
	}

	var resp turnResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
