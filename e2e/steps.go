// Package e2e drives the check API end to end over HTTP. It expects a running
// server (VOUCH_BASE_URL) backed by the profile-service mock fixtures.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cucumber/godog"
)

// TestContext carries request/response state across steps within a scenario.
type TestContext struct {
	baseURL string
	client  *http.Client

	lastStatus int
	lastBody   []byte
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// RegisterSteps registers all step definitions for the check API.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	ctx.Step(`^the vouch server is running$`, tc.serverIsRunning)
	ctx.Step(`^I request a check for username "([^"]*)"$`, tc.requestCheck)
	ctx.Step(`^the response status should be (\d+)$`, tc.responseStatusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, tc.responseFieldShouldBe)
	ctx.Step(`^every criterion should have passed$`, tc.everyCriterionPassed)
}

func (tc *TestContext) serverIsRunning() error {
	resp, err := tc.client.Get(tc.baseURL + "/healthz")
	if err != nil {
		return fmt.Errorf("server not reachable at %s: %w", tc.baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthz returned %d", resp.StatusCode)
	}
	return nil
}

func (tc *TestContext) requestCheck(username string) error {
	payload, err := json.Marshal(map[string]string{"username": username})
	if err != nil {
		return err
	}

	resp, err := tc.client.Post(tc.baseURL+"/v1/checks", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("POST /v1/checks: %w", err)
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) responseStatusShouldBe(expected int) error {
	if tc.lastStatus != expected {
		return fmt.Errorf("expected status %d, got %d (body: %s)", expected, tc.lastStatus, tc.lastBody)
	}
	return nil
}

func (tc *TestContext) responseFieldShouldBe(field, expected string) error {
	var body map[string]any
	if err := json.Unmarshal(tc.lastBody, &body); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	value, ok := body[field]
	if !ok {
		return fmt.Errorf("field %q missing from response: %s", field, tc.lastBody)
	}
	if got := fmt.Sprintf("%v", value); got != expected {
		return fmt.Errorf("expected %s=%q, got %q", field, expected, got)
	}
	return nil
}

func (tc *TestContext) everyCriterionPassed() error {
	var body struct {
		Criteria []struct {
			Name   string `json:"name"`
			Passed bool   `json:"passed"`
		} `json:"criteria"`
	}
	if err := json.Unmarshal(tc.lastBody, &body); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(body.Criteria) == 0 {
		return fmt.Errorf("no criteria in response: %s", tc.lastBody)
	}
	for _, c := range body.Criteria {
		if !c.Passed {
			return fmt.Errorf("criterion %q did not pass", c.Name)
		}
	}
	return nil
}
