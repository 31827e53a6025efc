package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventSolutionToken, "tok")
	assert.Equal(t, EventSolutionToken, e.Type)
	assert.Equal(t, "tok", e.Data)
	assert.False(t, e.Timestamp.IsZero())
	assert.False(t, e.IsError())
}

func TestNewErrorEvent(t *testing.T) {
	e := NewErrorEvent(EventSolutionError, errors.New("model unavailable"))
	assert.Equal(t, "model unavailable", e.Error)
	assert.True(t, e.IsError())

	e = NewErrorEvent(EventDebugError, nil)
	assert.Empty(t, e.Error)
	assert.True(t, e.IsError())
}

func TestEventJSON(t *testing.T) {
	e := NewEvent(EventProblemExtracted, &ProblemInfo{ProblemStatement: "p"})

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "problem_extracted", decoded["type"])
	assert.Equal(t, "p", decoded["data"].(map[string]interface{})["problem_statement"])
	assert.NotContains(t, decoded, "error")
}
