package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/team-interview/internal/llm/llmtest"
	"github.com/stretchr/testify/require"
)

const continueTurn = `{"response":"Tell me about a bug you fixed.","actionType":"continue","evaluation":{"score":6,"strengths":["honest"],"areasToImprove":[],"criterionCovered":"learning_mindset","coverageContribution":0.1},"coveredQuestionIds":[],"candidateAskedQuestion":false}`

const wrapUpTurn = `{"response":"That's all from us.","actionType":"wrap_up","wrapUpReason":"time is up","evaluation":{"score":8,"strengths":["clear"],"areasToImprove":[],"criterionCovered":"collaboration","coverageContribution":0.2},"coveredQuestionIds":[],"candidateAskedQuestion":false}`

// getBinaryPath returns the path to the team_interview binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "team_interview"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/team_interview ./cmd/team_interview'", binaryPath)
	}

	return binaryPath
}

// testApp wires sessions around a mock generator: plain text calls answer
// "Hello there!" and JSON calls replay turns.
func testApp(t *testing.T, turns ...string) (*app, *llmtest.MockClient) {
	t.Helper()
	client := &llmtest.MockClient{
		GenerateContentFunc: llmtest.Script("Hello there!"),
		GenerateJSONFunc:    llmtest.Script(turns...),
	}
	a, err := newAppWithClient(client, nil)
	require.NoError(t, err)
	return a, client
}
