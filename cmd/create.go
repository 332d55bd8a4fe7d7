package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/marcus/hours/internal/config"
	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/output"
	"github.com/marcus/hours/internal/validate"
	"github.com/spf13/cobra"
)

// createInput is what a new schedule is built from, from flags or the form.
type createInput struct {
	Name        string
	Description string
	Days        []models.DayIndex
	Frames      []string
}

// buildSchedule turns input into a validated schedule. Every selected day
// gets the same frames.
func buildSchedule(in createInput) (*models.WeeklySchedule, error) {
	name := strings.TrimSpace(in.Name)
	if err := validate.ValidateName(name); err != nil {
		return nil, err
	}
	s := &models.WeeklySchedule{Name: name, Description: strings.TrimSpace(in.Description)}
	for _, d := range in.Days {
		day, err := parseFrames(d, in.Frames)
		if err != nil {
			return nil, err
		}
		s.Days[d] = day
	}
	if err := firstError(s); err != nil {
		return nil, err
	}
	return s, nil
}

// runCreateForm prompts for the schedule fields. The name defaults to the
// last one used from this directory.
func runCreateForm(in *createInput) error {
	if in.Name == "" {
		if last, err := config.GetLastScheduleName(getBaseDir()); err == nil {
			in.Name = last
		}
	}

	dayOptions := make([]huh.Option[models.DayIndex], 0, models.DaysPerWeek)
	for d := models.Monday; d <= models.Sunday; d++ {
		dayOptions = append(dayOptions, huh.NewOption(d.String(), d))
	}
	frames := strings.Join(in.Frames, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&in.Name).
				Placeholder("Schedule name").
				Validate(func(s string) error {
					return validate.ValidateName(strings.TrimSpace(s))
				}),
			huh.NewText().
				Title("Description").
				Value(&in.Description).
				Placeholder("Optional description...").
				Lines(2),
			huh.NewMultiSelect[models.DayIndex]().
				Title("Days").
				Options(dayOptions...).
				Value(&in.Days),
			huh.NewInput().
				Title("Time frames").
				Description("Comma separated, e.g. 9:00am-12:00pm, 1:00pm-5:00pm").
				Value(&frames).
				Placeholder("9:00am-5:00pm"),
		).Title("New Schedule"),
	)
	form.WithTheme(huh.ThemeDracula())
	if err := form.Run(); err != nil {
		return err
	}

	in.Frames = nil
	for _, f := range strings.Split(frames, ",") {
		if f = strings.TrimSpace(f); f != "" {
			in.Frames = append(in.Frames, f)
		}
	}
	return nil
}

var createCmd = &cobra.Command{
	Use:     "create [name]",
	Aliases: []string{"add", "new"},
	Short:   "Create a schedule",
	Long: `Create a schedule. Without a name on a terminal, a form prompts for the fields.

Every selected day gets the same time frames; adjust individual days later with
"hours set-day" or the editor.`,
	Example: `  hours create Gym --days mon,wed,fri --frame 6:00am-8:00am
  hours create "Office hours" --days weekdays --frame 9:00am-12:00pm --frame 1:00pm-5:00pm`,
	GroupID: "schedules",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		description, _ := cmd.Flags().GetString("description")
		daysStr, _ := cmd.Flags().GetString("days")
		frames, _ := cmd.Flags().GetStringArray("frame")

		days, err := parseDays(daysStr)
		if err != nil {
			return reportError(jsonOut, err)
		}
		in := createInput{Description: description, Days: days, Frames: frames}

		if len(args) == 1 {
			in.Name = args[0]
		} else if jsonOut || !output.IsTerminal() {
			return reportError(jsonOut, validate.ErrNameRequired)
		} else if err := runCreateForm(&in); err != nil {
			return err
		}

		s, err := buildSchedule(in)
		if err != nil {
			return reportError(jsonOut, err)
		}

		ctx, cancel := commandContext()
		defer cancel()

		created, err := newClient().Create(ctx, s)
		if err != nil {
			return reportError(jsonOut, err)
		}
		if err := config.SetLastScheduleName(getBaseDir(), created.Name); err != nil {
			output.Warning("could not save state: %v", err)
		}

		if jsonOut {
			return output.JSON(output.ViewOf(created))
		}
		fmt.Printf("CREATED %s %s\n", created.ID, created.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringP("description", "d", "", "Schedule description")
	createCmd.Flags().String("days", "weekdays", "Days to include (e.g. mon,wed,fri or mon-fri)")
	createCmd.Flags().StringArray("frame", nil, "Time frame for each day, repeatable (default 9:00am-5:00pm)")
	createCmd.Flags().Bool("json", false, "Output as JSON")
}
