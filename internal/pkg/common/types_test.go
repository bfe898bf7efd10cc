package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurveyInputDecoding(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantAge    string
		wantBudget Budget
	}{
		{"array budget string age", `{"age":"25","budget":[1000]}`, "25", 1000},
		{"numeric budget numeric age", `{"age":31,"budget":2500.5}`, "31", 2500.5},
		{"string budget", `{"budget":"750"}`, "", 750},
		{"empty budget array", `{"budget":[]}`, "", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var s SurveyInput
			require.NoError(t, json.Unmarshal([]byte(tc.body), &s))
			assert.Equal(t, tc.wantAge, s.Age.String())
			assert.Equal(t, tc.wantBudget, s.Budget)
		})
	}

	t.Run("invalid budget", func(t *testing.T) {
		var s SurveyInput
		assert.Error(t, json.Unmarshal([]byte(`{"budget":"lots"}`), &s))
	})
}

func TestBudgetString(t *testing.T) {
	assert.Equal(t, "1000", Budget(1000).String())
	assert.Equal(t, "99.5", Budget(99.5).String())
}

func TestCustomErrorCopies(t *testing.T) {
	e := ErrNotFound.WithMessage("Gift not found")
	assert.Equal(t, "Gift not found", e.Response().Message)
	assert.Equal(t, "Resource not found", ErrNotFound.Message)
	assert.Equal(t, ErrCodeNotFound, e.Response().Code)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", MaskSecret("short"))
	assert.Equal(t, "abcd...wxyz", MaskSecret("abcdefghijklmnopqrstuvwxyz"))
}
