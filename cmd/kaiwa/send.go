package main

import (
	"fmt"

	"github.com/kaiwahq/kaiwa/internal/conversation"
	"github.com/kaiwahq/kaiwa/internal/logger"
	"github.com/kaiwahq/kaiwa/internal/model"
	"github.com/kaiwahq/kaiwa/internal/model/contract"
	"github.com/kaiwahq/kaiwa/internal/store"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
)

var (
	sendModel string
	sendFix   bool
)

var sendCmd = &cobra.Command{
	Use:   "send <transcript>",
	Short: "Dispatch a transcript to a model",
	Long:  `Validate a transcript, send it to the configured model, and persist the updated conversation (including the assistant's reply) in the workspace store.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conv, err := loadConversation(args[0])
		if err != nil {
			return err
		}

		if sendFix {
			conv, err = conversation.Normalize(conv, normalizePolicy())
			if err != nil {
				return err
			}
		}

		modelName := sendModel
		if modelName == "" {
			modelName = cfg.Models.Default
		}

		router, err := model.NewModelRouter(cfg.Models)
		if err != nil {
			return err
		}

		st, err := store.Open(cfg.Store.WorkspacePath, lockConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		transcriptID := st.NewID()
		ctx := logger.WithTraceID(cmd.Context(), ulid.Make().String())
		ctx = logger.WithTranscriptID(ctx, transcriptID)
		resp, err := router.Route(ctx, modelName, contract.CompletionRequest{
			Model:        modelName,
			Conversation: conv,
		})
		if err != nil {
			return err
		}

		conv = append(conv, resp.Message())

		transcript := &store.Transcript{ID: transcriptID, Messages: conv}
		if err := st.Save(transcript); err != nil {
			return err
		}

		if resp.Content != "" {
			fmt.Println(resp.Content)
		}
		for _, tc := range resp.ToolCalls {
			fmt.Printf("tool call %s: %s(%s)\n", tc.ID, tc.Name, tc.Input)
		}
		fmt.Printf("saved transcript %s\n", transcript.ID)
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendModel, "model", "", "model to dispatch to (default from config)")
	sendCmd.Flags().BoolVar(&sendFix, "fix", false, "normalize the transcript before dispatch")
	rootCmd.AddCommand(sendCmd)
}
