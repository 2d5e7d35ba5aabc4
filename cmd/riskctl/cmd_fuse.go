package main

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"mindscreen/internal/engine"
	"mindscreen/internal/model"
)

type fuseFlags struct {
	scores map[model.Modality]*float64
	asJSON bool
}

type fuseOutput struct {
	Fusion          model.FusionResult `json:"fusion"`
	Tier            model.Tier         `json:"tier"`
	Recommendations []string           `json:"recommendations"`
	Alert           *model.AlertRecord `json:"alert,omitempty"`
}

func newFuseCmd(load paramsLoader) *cobra.Command {
	flags := fuseFlags{scores: map[model.Modality]*float64{}}
	cmd := &cobra.Command{
		Use:   "fuse",
		Short: "Fuse per-modality severity scores into a composite risk level",
		Long:  "Fuse per-modality severity scores (0-10) into a composite risk level.\nOmitted modalities count as absent and their weight is redistributed.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFuse(cmd, load, &flags)
		},
	}
	f := cmd.Flags()
	for _, m := range model.Modalities {
		flags.scores[m] = f.Float64(string(m), 0, fmt.Sprintf("%s analyzer score (0-10)", m))
	}
	f.BoolVar(&flags.asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func runFuse(cmd *cobra.Command, load paramsLoader, flags *fuseFlags) error {
	p, err := load()
	if err != nil {
		return err
	}

	scores := model.ScoreSet{}
	for _, m := range model.Modalities {
		if !cmd.Flags().Changed(string(m)) {
			continue
		}
		v, err := model.ValidateScore(*flags.scores[m])
		if err != nil {
			return fmt.Errorf("--%s: %w", m, err)
		}
		scores[m] = v
	}

	res := engine.Fuse(scores, p)
	out := fuseOutput{
		Fusion:          res,
		Tier:            engine.TierFor(res.RiskLevel, p),
		Recommendations: engine.Recommend(res.RiskLevel, p),
		Alert: engine.EvaluateAlert(engine.AlertInput{
			SubjectID:      "cli",
			RiskLevel:      res.RiskLevel,
			CompositeScore: res.CompositeScore,
		}, p, nowFunc()),
	}

	w := cmd.OutOrStdout()
	if flags.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "Composite:   %.2f\n", math.Floor(res.CompositeScore*100+0.5)/100)
	fmt.Fprintf(w, "Risk level:  %d (%s)\n", res.RiskLevel, out.Tier)
	fmt.Fprintf(w, "Modalities:  %d\n", res.ModalitiesUsed)
	fmt.Fprintf(w, "Weights:\n")
	for _, m := range model.Modalities {
		fmt.Fprintf(w, "  %-6s %.4f\n", m, res.Weights[m])
	}
	fmt.Fprintf(w, "Symptoms:\n")
	for _, d := range engine.SymptomDimensions() {
		fmt.Fprintf(w, "  %-19s %.1f\n", d, res.Symptoms[d])
	}
	fmt.Fprintf(w, "Recommendations:\n")
	for _, r := range out.Recommendations {
		fmt.Fprintf(w, "  - %s\n", r)
	}
	if out.Alert != nil {
		fmt.Fprintf(w, "Alert:       %s\n", out.Alert.Description)
	} else {
		fmt.Fprintf(w, "Alert:       none\n")
	}
	return nil
}
