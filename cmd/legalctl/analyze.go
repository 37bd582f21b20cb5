package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yanqian/legal-assistant/internal/domain/analysis"
	"github.com/yanqian/legal-assistant/internal/domain/extractor"
	"github.com/yanqian/legal-assistant/internal/domain/risk"
	"github.com/yanqian/legal-assistant/internal/domain/segmenter"
)

var (
	analyzeText    string
	analyzeExplain bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a contract file or inline text",
	Long: `Analyzes a PDF or text file (or --text) and prints the summary, clauses and
flagged risks as JSON. With --explain the raw entailment verdict for every
clause and hypothesis pair is printed instead of the findings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeText, "text", "t", "", "analyze this text instead of a file")
	analyzeCmd.Flags().BoolVar(&analyzeExplain, "explain", false, "print every entailment verdict")
	rootCmd.AddCommand(analyzeCmd)
}

type pipeline struct {
	analysis analysis.Service
	flagger  *risk.Flagger
	seg      *segmenter.Segmenter
	ext      extractor.Service
}

// newPipeline exposes the flagger, segmenter and extractor next to the
// service so --explain can replay the steps Analyze runs.
func newPipeline(svc analysis.Service, flagger *risk.Flagger, seg *segmenter.Segmenter, ext extractor.Service) *pipeline {
	return &pipeline{analysis: svc, flagger: flagger, seg: seg, ext: ext}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	req, err := analyzeRequest(args)
	if err != nil {
		return err
	}

	cfg, logger, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	p, cleanup, err := initializePipeline(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if analyzeExplain {
		return explain(cmd, p, req)
	}

	result, err := p.analysis.Analyze(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	return printJSON(cmd, result)
}

func analyzeRequest(args []string) (analysis.Request, error) {
	if analyzeText != "" {
		if len(args) > 0 {
			return analysis.Request{}, errors.New("pass either a file or --text, not both")
		}
		return analysis.Request{Text: analyzeText}, nil
	}
	if len(args) == 0 {
		return analysis.Request{}, errors.New("a file or --text is required")
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return analysis.Request{}, fmt.Errorf("reading %s: %w", args[0], err)
	}
	return analysis.Request{Document: &extractor.Document{
		Filename: filepath.Base(args[0]),
		Content:  content,
	}}, nil
}

type verdictView struct {
	Clause     int     `json:"clause"`
	Hypothesis string  `json:"hypothesis"`
	Label      string  `json:"label,omitempty"`
	Score      float64 `json:"score"`
	Entails    bool    `json:"entails"`
	Error      string  `json:"error,omitempty"`
}

func explain(cmd *cobra.Command, p *pipeline, req analysis.Request) error {
	text := req.Text
	if req.Document != nil {
		extracted, err := p.ext.Extract(cmd.Context(), *req.Document)
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}
		text = extracted
	}
	clauses := p.seg.Segment(text)
	index := make(map[string]int, len(clauses))
	for i, c := range clauses {
		if _, ok := index[c]; !ok {
			index[c] = i
		}
	}

	verdicts := p.flagger.Evaluate(cmd.Context(), clauses)
	views := make([]verdictView, 0, len(verdicts))
	for _, v := range verdicts {
		view := verdictView{
			Clause:     index[v.Clause],
			Hypothesis: v.Hypothesis,
			Label:      v.Label,
			Score:      v.Score,
		}
		if v.Err != nil {
			view.Error = v.Err.Error()
		} else {
			view.Entails = p.flagger.Entails(v)
		}
		views = append(views, view)
	}
	return printJSON(cmd, map[string]any{"clauses": clauses, "verdicts": views})
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
