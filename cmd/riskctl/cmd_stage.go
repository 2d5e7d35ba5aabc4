package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mindscreen/internal/engine"
)

func newStageCmd(load paramsLoader) *cobra.Command {
	var messages int
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Show the dialogue stage and directive for a history length",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := load()
			if err != nil {
				return err
			}
			state := engine.StageFor(messages, p)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Messages:   %d\n", state.MessageCount)
			fmt.Fprintf(out, "Stage:      %s\n", state.Stage)
			fmt.Fprintf(out, "Directive:  %s\n", state.Directive)
			return nil
		},
	}
	cmd.Flags().IntVar(&messages, "messages", 0, "Number of messages already in the conversation history")
	return cmd
}
