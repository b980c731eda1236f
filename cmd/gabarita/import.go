package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gabarita/gabarita-backend/internal/service"
)

func importQuestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-questions",
		Short: "Normalize a QuestionBank.json file and upsert it into the store",
		Long: `Reads a question bank file and upserts every valid question.

The file is either a flat array of question records, imported into the exam
named by --exam, or an object mapping exam id to an array of records.
Records that fail normalization are reported and skipped.`,
		RunE: runImportQuestions,
	}
	f := cmd.Flags()
	f.StringP("file", "f", "QuestionBank.json", "Path to the question bank JSON file")
	f.StringP("exam", "e", "", "Exam id for a flat array file")
	return cmd
}

func runImportQuestions(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	examID, _ := cmd.Flags().GetString("exam")

	byExam, err := readQuestionBank(path, examID)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	_, st, log, err := openStores(ctx, cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	questionService := service.NewQuestionService(st.Questions, st.CustomExams, log)

	ids := make([]string, 0, len(byExam))
	for id := range byExam {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := cmd.OutOrStdout()
	for _, id := range ids {
		n, problems, err := questionService.ImportRaw(ctx, id, byExam[id])
		if err != nil {
			return fmt.Errorf("import exam %s: %w", id, err)
		}
		for _, p := range problems {
			fmt.Fprintf(out, "  skipped: %v\n", p)
		}
		fmt.Fprintf(out, "exam %s: %d imported, %d skipped\n", id, n, len(problems))
	}
	return nil
}

// readQuestionBank decodes a flat or exam-keyed question bank file.
func readQuestionBank(path, examID string) (map[string][]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '[' {
		if examID == "" {
			return nil, fmt.Errorf("%s is a flat question list: --exam is required", path)
		}
		var records []map[string]any
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return map[string][]map[string]any{examID: records}, nil
	}

	var byExam map[string][]map[string]any
	if err := json.Unmarshal(data, &byExam); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if examID != "" {
		records, ok := byExam[examID]
		if !ok {
			return nil, fmt.Errorf("exam %q not found in %s", examID, path)
		}
		return map[string][]map[string]any{examID: records}, nil
	}
	return byExam, nil
}
