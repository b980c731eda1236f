package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gabarita/gabarita-backend/internal/qbank"
	"github.com/gabarita/gabarita-backend/internal/scoring"
)

func gradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade an answer sheet against a question file without touching storage",
		RunE:  runGrade,
	}
	f := cmd.Flags()
	f.StringP("questions", "q", "", "Path to a JSON array of question records")
	f.StringP("answers", "a", "", "Path to a JSON object mapping question id to chosen option")
	_ = cmd.MarkFlagRequired("questions")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

func runGrade(cmd *cobra.Command, args []string) error {
	qPath, _ := cmd.Flags().GetString("questions")
	aPath, _ := cmd.Flags().GetString("answers")

	var records []map[string]any
	if err := readJSON(qPath, &records); err != nil {
		return err
	}
	questions, problems := qbank.NormalizeAll(records, "")
	for _, p := range problems {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", p)
	}

	var answers map[string]any
	if err := readJSON(aPath, &answers); err != nil {
		return err
	}

	result := scoring.Grade(questions, scoring.NewSubmission(answers))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
