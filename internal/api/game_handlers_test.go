package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitGuessRequest_AcceptsLegacyPayload(t *testing.T) {
	// Older clients include their own correctness verdict in the
	// submission body. The strict decoder must still accept it.
	body := `{
		"puzzleId": "pzl_abc",
		"attemptedAnswer": "i understand",
		"isCorrect": true,
		"abandoned": false,
		"attemptNumber": 1,
		"maxAttempts": 3,
		"timeSpentSeconds": 42,
		"hintsUsed": 1
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/attempts", strings.NewReader(body))
	var parsed submitGuessRequest
	require.NoError(t, decodeJSON(req, &parsed))

	assert.Equal(t, "pzl_abc", parsed.PuzzleID)
	assert.Equal(t, "i understand", parsed.AttemptedAnswer)
	assert.Equal(t, 1, parsed.AttemptNumber)
}

func TestSubmitGuessRequest_RejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/attempts", strings.NewReader(`{"puzzleId":"p","bogus":1}`))
	var parsed submitGuessRequest
	assert.Error(t, decodeJSON(req, &parsed))
}
