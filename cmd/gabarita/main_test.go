package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabarita/gabarita-backend/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadQuestionBank(t *testing.T) {
	flat := writeFile(t, "flat.json", `[{"id":"1","area":"Matemática","alternativas":["A) 1","B) 2"],"gabarito":"B"}]`)
	keyed := writeFile(t, "keyed.json", `{"1":[{"id":"1"}],"2":[{"id":"2"},{"id":"3"}]}`)

	t.Run("flat list needs an exam", func(t *testing.T) {
		_, err := readQuestionBank(flat, "")
		assert.ErrorContains(t, err, "--exam")
	})

	t.Run("flat list", func(t *testing.T) {
		got, err := readQuestionBank(flat, "7")
		require.NoError(t, err)
		require.Len(t, got["7"], 1)
	})

	t.Run("keyed by exam", func(t *testing.T) {
		got, err := readQuestionBank(keyed, "")
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Len(t, got["2"], 2)
	})

	t.Run("keyed by exam with selection", func(t *testing.T) {
		got, err := readQuestionBank(keyed, "2")
		require.NoError(t, err)
		assert.Len(t, got, 1)

		_, err = readQuestionBank(keyed, "9")
		assert.ErrorContains(t, err, `"9"`)
	})
}

func TestGradeCommand(t *testing.T) {
	questions := writeFile(t, "q.json", `[
		{"id":"1","area":"Matemática","tema":"Álgebra","alternativas":["A) 1","B) 2"],"gabarito":"B"},
		{"id":"2","area":"Linguagens","options":["A","B","C"],"answer":"C"},
		{"id":"3","area":"Linguagens","options":["A","B"],"answer":"E"}
	]`)
	answers := writeFile(t, "a.json", `{"1":"B","2":"A","99":"C"}`)

	var stdout, stderr bytes.Buffer
	root := rootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"grade", "--questions", questions, "--answers", answers})
	require.NoError(t, root.Execute())

	var result model.GradedResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 50.0, result.Score)
	assert.Contains(t, stderr.String(), "record 2")
}

func TestGradeCommand_RequiresFlags(t *testing.T) {
	root := rootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"grade"})
	assert.Error(t, root.Execute())
}
