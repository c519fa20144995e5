package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
)

func (c *cli) scoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <resume.json|->",
		Short: "Print the completeness score (0-100)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			eng, err := c.engine()
			if err != nil {
				return err
			}
			r, err := c.readResume(args[0])
			if err != nil {
				return err
			}
			score, err := eng.Score(r)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.out, score)
			return err
		},
	}
}

func (c *cli) explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <resume.json|->",
		Short: "Print the score broken down by category",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			eng, err := c.engine()
			if err != nil {
				return err
			}
			r, err := c.readResume(args[0])
			if err != nil {
				return err
			}
			breakdown, err := eng.Explain(r)
			if err != nil {
				return err
			}
			return c.printJSON(breakdown)
		},
	}
}

func (c *cli) suggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <resume.json|->",
		Short: "Print improvement suggestions, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			eng, err := c.engine()
			if err != nil {
				return err
			}
			r, err := c.readResume(args[0])
			if err != nil {
				return err
			}
			items, err := eng.Suggest(r)
			if err != nil {
				return err
			}
			for _, s := range items {
				if _, err := fmt.Fprintln(c.out, s); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (c *cli) optimizeCmd() *cobra.Command {
	var jobPath string
	var apply bool

	cmd := &cobra.Command{
		Use:   "optimize <resume.json|-> --job <file|->",
		Short: "Match a resume against a job description",
		Long: "Match a resume against a job description and print the skills to add.\n" +
			"With --apply the merged resume and its new score are printed instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if args[0] == "-" && jobPath == "-" {
				return errors.New("resume and job description cannot both be read from stdin")
			}
			eng, err := c.engine()
			if err != nil {
				return err
			}
			r, err := c.readResume(args[0])
			if err != nil {
				return err
			}
			job, err := c.readText(jobPath)
			if err != nil {
				return err
			}
			out, err := eng.Optimize(r, job)
			if err != nil {
				return err
			}
			telemetry.Debug("resumectl.optimized", map[string]any{
				"keywords":    len(out.Keywords),
				"match_ratio": out.MatchRatio,
			})
			if !apply {
				return c.printJSON(out)
			}

			merged, added := model.MergeSkills(r, out.SuggestedSkills)
			score, err := eng.Score(merged)
			if err != nil {
				return err
			}
			return c.printJSON(struct {
				Added  []string     `json:"added"`
				Score  int          `json:"score"`
				Resume model.Resume `json:"resume"`
			}{Added: added, Score: score, Resume: merged})
		},
	}
	cmd.Flags().StringVar(&jobPath, "job", "", "job description text file, or - for stdin")
	cmd.Flags().BoolVar(&apply, "apply", false, "merge suggested skills and print the updated resume")
	_ = cmd.MarkFlagRequired("job")
	return cmd
}

func (c *cli) taxonomyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "taxonomy",
		Short: "List the recognized skill terms",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			eng, err := c.engine()
			if err != nil {
				return err
			}
			for _, term := range eng.Taxonomy().Terms() {
				line := term.Name
				if len(term.Synonyms) > 0 {
					line += " (" + strings.Join(term.Synonyms, ", ") + ")"
				}
				if _, err := fmt.Fprintln(c.out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
