package main

import (
	"fmt"

	"github.com/kaiwahq/kaiwa/internal/conversation"
	"github.com/kaiwahq/kaiwa/internal/report"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <transcript>",
	Short: "Validate a transcript",
	Long:  `Check a transcript file (JSON or YAML) for tool-call / tool-result pairing and role placement problems.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conv, err := loadConversation(args[0])
		if err != nil {
			return err
		}

		issues := conversation.Validate(conv)
		fmt.Println(report.NewIssueFormatter().FormatIssues(issues))

		if len(issues) > 0 {
			return fmt.Errorf("%d structural issue(s) found", len(issues))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
