package e2e

import (
	"os"
	"testing"

	"github.com/cucumber/godog"
)

func TestCheckAPI(t *testing.T) {
	baseURL := os.Getenv("VOUCH_BASE_URL")
	if baseURL == "" {
		t.Skip("VOUCH_BASE_URL not set; start the server and profile-service mock first")
	}

	suite := godog.TestSuite{
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			RegisterSteps(ctx, NewTestContext(baseURL))
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("scenario failures")
	}
}
