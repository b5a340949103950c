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

const (
	baseURL = "http://localhost:3000/api"
)

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	userToken := os.Getenv("TEST_USER_TOKEN")
	cronSecret := os.Getenv("CRON_SECRET")

	color.Cyan("🚀 Starting Billing & Directory API Test\n")

	// 1. Webhook health
	color.Yellow("\n1. Webhook health check")
	resp, body, err := sendRequest("GET", "/webhooks/mercadopago", "", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	fmt.Println(string(body))

	// 2. Public directory search
	color.Yellow("\n2. Search directory (provincia=Buenos Aires)")
	resp, body, err = sendRequest("GET", "/escribanos?provincia=Buenos+Aires&page=1&limit=5", "", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var dirResp map[string]interface{}
	json.Unmarshal(body, &dirResp)
	prettyPrint(dirResp)

	// 3. Subscription status (requires TEST_USER_TOKEN)
	if userToken != "" {
		color.Yellow("\n3. Subscription status")
		resp, body, err = sendRequest("GET", "/billing/status", userToken, nil)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		var statusResp map[string]interface{}
		json.Unmarshal(body, &statusResp)
		prettyPrint(statusResp)

		color.Yellow("\n4. Payment history")
		resp, body, err = sendRequest("GET", "/billing/pagos", userToken, nil)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		var pagosResp map[string]interface{}
		json.Unmarshal(body, &pagosResp)
		prettyPrint(pagosResp)
	} else {
		color.Yellow("\n3-4. Skipping authenticated billing checks (set TEST_USER_TOKEN)")
	}

	// 5. Manual sweep (requires CRON_SECRET)
	if cronSecret != "" {
		color.Yellow("\n5. Trigger subscription sweep")
		resp, body, err = sendRequest("GET", "/cron/verificar-suscripciones", cronSecret, nil)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		var sweepResp map[string]interface{}
		json.Unmarshal(body, &sweepResp)
		prettyPrint(sweepResp)
	} else {
		color.Yellow("\n5. Skipping sweep trigger (set CRON_SECRET)")
	}

	color.Cyan("\n✅ Done")
}
