package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go-camerafy"
)

type inspectOutput struct {
	Uploads      []camerafy.InspectedUpload `json:"uploads"`
	BlockedCount int                        `json:"blockedCount"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <file|url>...",
		Short: "Read EXIF from images and run the upload gate",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, err := ctx.gate()
			if err != nil {
				return err
			}

			uploads := make([]camerafy.Upload, 0, len(args))
			for _, arg := range args {
				up, err := loadUpload(cmd, gate, arg)
				if err != nil {
					return err
				}
				uploads = append(uploads, up)
			}

			results := gate.InspectBatch(cmd.Context(), uploads)
			if asJSON {
				return writeJSON(cmd, inspectOutput{Uploads: results, BlockedCount: camerafy.BlockedCount(results)})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderInspectTable(results))
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d blocked\n", camerafy.BlockedCount(results), len(results))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func loadUpload(cmd *cobra.Command, gate *camerafy.Config, arg string) (camerafy.Upload, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		res, err := gate.Fetch(cmd.Context(), arg)
		if err != nil {
			return camerafy.Upload{}, fmt.Errorf("fetch %s: %w", arg, err)
		}
		if res == nil {
			return camerafy.Upload{}, fmt.Errorf("fetch %s: not an image", arg)
		}
		return camerafy.Upload{Name: arg, Data: res.Data}, nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return camerafy.Upload{}, err
	}
	return camerafy.Upload{Name: filepath.Base(arg), Data: data}, nil
}

func renderInspectTable(results []camerafy.InspectedUpload) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		camera := strings.TrimSpace(r.EXIF.Make + " " + r.EXIF.Camera)
		if camera == "" {
			camera = "-"
		}
		year := "-"
		if r.Decision.HasReleaseYear() {
			year = strconv.Itoa(r.Decision.ReleaseYear)
		}
		verdict := "accepted"
		if r.Decision.Blocked {
			verdict = "blocked"
		}
		reason := r.Decision.Reason
		if r.Error != "" {
			verdict, reason = "error", r.Error
		}
		size := "-"
		if r.Width > 0 {
			size = fmt.Sprintf("%dx%d", r.Width, r.Height)
		}
		rows = append(rows, []string{r.FileName, camera, r.Decision.Sensor.Label(), year, size, verdict, reason})
	}
	return renderTable(
		[]string{"File", "Camera", "Sensor", "Year", "Size", "Upload", "Reason"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	)
}
