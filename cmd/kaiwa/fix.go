package main

import (
	"encoding/json"
	"fmt"

	"github.com/kaiwahq/kaiwa/internal/conversation"

	"github.com/spf13/cobra"
)

var fixOutput string

var fixCmd = &cobra.Command{
	Use:   "fix <transcript>",
	Short: "Normalize a transcript",
	Long:  `Rewrite a transcript into the shape strict providers accept: tool results lifted into dedicated tool messages, narrative text separated from tool calls per the configured policy.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conv, err := loadConversation(args[0])
		if err != nil {
			return err
		}

		fixed, err := conversation.Normalize(conv, normalizePolicy())
		if err != nil {
			return err
		}

		if remaining := conversation.Validate(fixed); len(remaining) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d issue(s) remain after normalization (e.g. dangling tool calls cannot be invented)\n", len(remaining))
		}

		if fixOutput != "" {
			if err := writeConversation(fixOutput, fixed); err != nil {
				return err
			}
			fmt.Printf("normalized transcript written to %s\n", fixOutput)
			return nil
		}

		data, err := json.MarshalIndent(fixed, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	fixCmd.Flags().StringVarP(&fixOutput, "output", "o", "", "write the normalized transcript to this file instead of stdout")
	rootCmd.AddCommand(fixCmd)
}
