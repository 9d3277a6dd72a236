package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olegische/normcore/internal/buildconfig"
	"github.com/olegische/normcore/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "normcore",
		Short:         "Judge whether an agent response is admissible given its evidence",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       buildconfig.String(),
	}
	root.AddCommand(newEvaluateCmd())
	return root
}

func newEvaluateCmd() *cobra.Command {
	var (
		agentOutput  string
		conversation string
		grounds      string
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate an agent response and print the admissibility judgment",
		Long: `Evaluate an agent response and print the admissibility judgment as JSON.

The input is given either as flags (--agent-output, --conversation,
--grounds, the latter two holding literal JSON) or as a full
{agent_output, conversation, grounds} payload on stdin when no flag
is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := buildPayload(cmd.InOrStdin(), agentOutput, conversation, grounds)
			if err != nil {
				return err
			}

			evaluator := service.NewEvaluator(zap.NewNop())
			judgment, err := evaluator.EvaluateJSON(payload)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(judgment, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&agentOutput, "agent-output", "", "agent output text to evaluate")
	cmd.Flags().StringVar(&conversation, "conversation", "", "conversation messages as a JSON array")
	cmd.Flags().StringVar(&grounds, "grounds", "", "external grounds as a JSON array")
	return cmd
}

// buildPayload assembles the evaluation payload from flags, or reads it
// whole from stdin when no flag was given.
func buildPayload(stdin io.Reader, agentOutput, conversation, grounds string) ([]byte, error) {
	if agentOutput == "" && conversation == "" && grounds == "" {
		payload, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return payload, nil
	}

	obj := map[string]json.RawMessage{}
	if agentOutput != "" {
		encoded, err := json.Marshal(agentOutput)
		if err != nil {
			return nil, err
		}
		obj["agent_output"] = encoded
	}
	if conversation != "" {
		if !json.Valid([]byte(conversation)) {
			return nil, fmt.Errorf("--conversation is not valid JSON")
		}
		obj["conversation"] = json.RawMessage(conversation)
	}
	if grounds != "" {
		if !json.Valid([]byte(grounds)) {
			return nil, fmt.Errorf("--grounds is not valid JSON")
		}
		obj["grounds"] = json.RawMessage(grounds)
	}
	return json.Marshal(obj)
}
