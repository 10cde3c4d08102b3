package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go-camerafy"
)

type classifyResult struct {
	Camera      camerafy.Camera         `json:"camera"`
	Sensor      camerafy.SensorType     `json:"sensor"`
	Label       string                  `json:"label"`
	ReleaseYear int                     `json:"releaseYear,omitempty"`
	Classic     bool                    `json:"classic"`
	Decision    camerafy.UploadDecision `json:"decision"`
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var (
		cam    camerafy.Camera
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Resolve sensor type, release year and upload decision for a camera",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(cam.Make+cam.Model+cam.Lens) == "" {
				return errors.New("at least one of --make, --model or --lens is required")
			}
			gate, err := ctx.gate()
			if err != nil {
				return err
			}

			d := gate.Evaluate(cam)
			res := classifyResult{
				Camera:      cam,
				Sensor:      d.Sensor,
				Label:       d.Sensor.Label(),
				ReleaseYear: d.ReleaseYear,
				Classic:     d.Classic,
				Decision:    d,
			}
			if asJSON {
				return writeJSON(cmd, res)
			}

			year := "unknown"
			if d.HasReleaseYear() {
				year = strconv.Itoa(d.ReleaseYear)
			}
			verdict := "accepted"
			if d.Blocked {
				verdict = "blocked"
			}
			rows := [][]string{
				{"Sensor", res.Label},
				{"Release year", year},
				{"Classic", strconv.FormatBool(d.Classic)},
				{"Upload", verdict + " (" + d.Reason + ")"},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&cam.Make, "make", "", "EXIF Make")
	cmd.Flags().StringVar(&cam.Model, "model", "", "EXIF Model")
	cmd.Flags().StringVar(&cam.Lens, "lens", "", "EXIF LensModel")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
