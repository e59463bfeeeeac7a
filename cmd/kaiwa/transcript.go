package main

import (
	"encoding/json"
	"fmt"

	"github.com/kaiwahq/kaiwa/internal/config"
	"github.com/kaiwahq/kaiwa/internal/store"

	"github.com/spf13/cobra"
)

var transcriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Manage stored transcripts",
	Long:  `List and inspect conversations persisted in the workspace store.`,
}

var transcriptLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored transcripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Store.WorkspacePath, lockConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		ids, err := st.List()
		if err != nil {
			return err
		}

		if len(ids) == 0 {
			fmt.Println("No transcripts found.")
			fmt.Println("\nRun 'kaiwa send' to create one.")
			return nil
		}

		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

var transcriptShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Store.WorkspacePath, lockConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		transcript, err := st.Load(args[0])
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(transcript, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func lockConfig() *store.FileLockConfig {
	if cfg == nil {
		return nil
	}

	lockTimeout, err := config.DurationOrDefault(cfg.Store.LockTimeout, config.DefaultStoreLockTimeout)
	if err != nil {
		return nil
	}
	lockRetry, err := config.DurationOrDefault(cfg.Store.LockRetry, config.DefaultStoreLockRetry)
	if err != nil {
		return nil
	}

	maxRetry := cfg.Store.LockMaxRetry
	if maxRetry <= 0 {
		maxRetry = config.DefaultStoreLockMaxRetry
	}

	return &store.FileLockConfig{
		LockTimeout:  lockTimeout,
		LockRetry:    lockRetry,
		LockMaxRetry: maxRetry,
	}
}

func init() {
	transcriptCmd.AddCommand(transcriptLsCmd)
	transcriptCmd.AddCommand(transcriptShowCmd)
	rootCmd.AddCommand(transcriptCmd)
}
