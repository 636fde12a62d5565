// Command smoke walks the full clinician workflow against a running
// instance: open session, sign in, search the directory, select a patient,
// classify a sample. Point it at a server started with the backend bypass
// (LOGIN_API_ADDRESS=None etc.) for a self-contained check.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

var baseURL = "http://localhost:8082/api"

type envelope struct {
	Success bool            `json:"success"`
	Warning bool            `json:"warning"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func sendRequest(method, url, token string, body interface{}) (*envelope, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%s: bad response: %w", url, err)
	}
	if !env.Success {
		return &env, fmt.Errorf("%s: %s", url, env.Message)
	}
	return &env, nil
}

func step(name string, env *envelope, err error) *envelope {
	if err != nil {
		color.Red("FAIL %s: %v", name, err)
		os.Exit(1)
	}
	if env.Warning {
		color.Yellow("WARN %s: %s", name, env.Message)
	} else {
		color.Green("OK   %s", name)
	}
	return env
}

func main() {
	if v := os.Getenv("SMOKE_BASE_URL"); v != "" {
		baseURL = v
	}
	color.Cyan("Workflow smoke test against %s", baseURL)

	// 1. Open a session
	env, err := sendRequest("POST", "/session", "", nil)
	env = step("open session", env, err)
	var opened struct {
		Token string `json:"token"`
		View  string `json:"view"`
	}
	json.Unmarshal(env.Data, &opened)
	token := opened.Token

	// 2. Empty username must be rejected locally
	_, err = sendRequest("POST", "/auth/login", token, map[string]string{"username": "", "password": "pw"})
	if err == nil {
		color.Red("FAIL login with empty username was accepted")
		os.Exit(1)
	}
	color.Green("OK   empty username rejected")

	// 3. Sign in
	env, err = sendRequest("POST", "/auth/login", token, map[string]string{"username": "doc1", "password": "Abc123"})
	env = step("login", env, err)

	// 4. Search the directory
	env, err = sendRequest("POST", "/patients/search", token, map[string]string{"column": "Name", "query": "Doe"})
	env = step("search Doe", env, err)
	var view struct {
		Patients []struct {
			RefID     string `json:"ref_id"`
			PatientID string `json:"patient_id"`
			Name      string `json:"name"`
		} `json:"patients"`
	}
	json.Unmarshal(env.Data, &view)
	color.White("     %d match(es)", len(view.Patients))
	if len(view.Patients) == 0 {
		color.Red("FAIL no patients matched")
		os.Exit(1)
	}

	// 5. Select the first match
	env, err = sendRequest("POST", "/patients/select", token, map[string]string{
		"ref_id": view.Patients[0].RefID, "patient_id": view.Patients[0].PatientID,
	})
	step("select "+view.Patients[0].Name, env, err)

	// 6. Pick a sample image and classify
	idx := 0
	env, err = sendRequest("POST", "/classification/select-image", token, map[string]int{"index": idx})
	step("select image", env, err)

	env, err = sendRequest("POST", "/classification/submit", token, nil)
	env = step("classify", env, err)
	var result struct {
		Result *struct {
			Labels []struct {
				Label string  `json:"label"`
				Score float64 `json:"score"`
			} `json:"labels"`
		} `json:"result"`
	}
	json.Unmarshal(env.Data, &result)
	if result.Result != nil {
		for _, l := range result.Result.Labels {
			color.White("     %-24s %.2f", l.Label, l.Score)
		}
	}

	// 7. Back to the list, then out
	env, err = sendRequest("POST", "/classification/cancel", token, nil)
	step("cancel classification", env, err)
	env, err = sendRequest("POST", "/auth/logout", token, nil)
	step("logout", env, err)

	color.Cyan("All steps passed")
}
