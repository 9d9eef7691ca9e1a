package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableTime_Unmarshal(t *testing.T) {
	var absent UpdateProjectInput
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &absent))
	assert.False(t, absent.CompletionDate.Set)
	assert.Nil(t, absent.CompletionDate.Time)

	var cleared UpdateProjectInput
	require.NoError(t, json.Unmarshal([]byte(`{"completionDate":null}`), &cleared))
	assert.True(t, cleared.CompletionDate.Set)
	assert.Nil(t, cleared.CompletionDate.Time)

	var set UpdateProjectInput
	require.NoError(t, json.Unmarshal([]byte(`{"completionDate":"2024-05-01T00:00:00Z"}`), &set))
	assert.True(t, set.CompletionDate.Set)
	require.NotNil(t, set.CompletionDate.Time)
	assert.True(t, set.CompletionDate.Time.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))

	var bad UpdateProjectInput
	assert.Error(t, json.Unmarshal([]byte(`{"completionDate":"soon"}`), &bad))
}
