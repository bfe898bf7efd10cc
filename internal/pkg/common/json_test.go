package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONArray(t *testing.T) {
	t.Run("prose around nested array", func(t *testing.T) {
		arr, err := ExtractJSONArray("Sure! [1,2,[3,4]] done")
		require.NoError(t, err)

		out, err := json.Marshal(arr)
		require.NoError(t, err)
		assert.JSONEq(t, `[1,2,[3,4]]`, string(out))
	})

	t.Run("only first top-level array", func(t *testing.T) {
		arr, err := ExtractJSONArray(`first ["a"] then ["b","c"]`)
		require.NoError(t, err)
		assert.Equal(t, []any{"a"}, arr)
	})

	t.Run("code fenced objects", func(t *testing.T) {
		text := "```json\n[{\"name\":\"Mug\",\"approximatePrice\":250}]\n```"
		arr, err := ExtractJSONArray(text)
		require.NoError(t, err)
		require.Len(t, arr, 1)

		obj, ok := arr[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Mug", obj["name"])
		assert.Equal(t, json.Number("250"), obj["approximatePrice"])
	})

	t.Run("empty array", func(t *testing.T) {
		arr, err := ExtractJSONArray("[]")
		require.NoError(t, err)
		assert.Empty(t, arr)
	})

	failures := []struct {
		name string
		text string
		want error
	}{
		{"no array", "no array here", ErrNoArrayStart},
		{"empty text", "", ErrNoArrayStart},
		{"unbalanced", "[1,2", ErrUnbalancedBrackets},
		{"unbalanced nested", "[[1,2]", ErrUnbalancedBrackets},
		{"invalid json", "[1,,2]", ErrArrayParse},
		{"trailing comma objects", `[{"a":1},]`, ErrArrayParse},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			arr, err := ExtractJSONArray(tc.text)
			assert.Nil(t, arr)
			assert.ErrorIs(t, err, tc.want)

			// 相同輸入必須得到相同結果
			_, again := ExtractJSONArray(tc.text)
			assert.Equal(t, err.Error(), again.Error())
		})
	}
}

func TestParseJSONRejectsExtraData(t *testing.T) {
	var v map[string]any
	assert.Error(t, ParseJSON(`{"a":1} {"b":2}`, &v))
	assert.NoError(t, ParseJSON(`{"a":1}`, &v))
}

func TestParseJSONBytesIntoSurvey(t *testing.T) {
	var survey SurveyInput
	require.NoError(t, ParseJSONBytes([]byte(`{"age":52,"budget":[1500],"interests":["Music"]}`), &survey))
	assert.Equal(t, "52", survey.Age.String())
	assert.Equal(t, Budget(1500), survey.Budget)
	assert.Equal(t, []string{"Music"}, survey.Interests)

	assert.Error(t, ParseJSONBytes([]byte(`{"age":1}]`), &survey))
}
