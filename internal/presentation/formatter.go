package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatActivitiesJSON formats the roster as indented JSON.
func (f *Formatter) FormatActivitiesJSON(activities []ActivityDTO) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(activities)
}

// FormatActivitiesTable formats the roster as an aligned text table.
func (f *Formatter) FormatActivitiesTable(activities []ActivityDTO) error {
	if len(activities) == 0 {
		_, err := fmt.Fprintln(f.writer, "No activities available.")
		return err
	}

	headers := []string{"ACTIVITY", "SCHEDULE", "ENROLLED", "SPOTS LEFT"}
	rows := make([][]string, 0, len(activities))
	for _, act := range activities {
		rows = append(rows, []string{
			act.Name,
			act.Schedule,
			fmt.Sprintf("%d/%d", len(act.Participants), act.MaxParticipants),
			spotsCell(act.SpotsLeft),
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	if err := f.writeRow(headers, widths); err != nil {
		return err
	}
	for _, row := range rows {
		if err := f.writeRow(row, widths); err != nil {
			return err
		}
	}
	return nil
}

// FormatMessage writes a single server message line.
func (f *Formatter) FormatMessage(message string) error {
	_, err := fmt.Fprintln(f.writer, message)
	return err
}

func (f *Formatter) writeRow(cells []string, widths []int) error {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = runewidth.FillRight(cell, widths[i])
	}
	_, err := fmt.Fprintln(f.writer, strings.TrimRight(strings.Join(parts, "  "), " "))
	return err
}

func spotsCell(spots int) string {
	if spots <= 0 {
		return "full"
	}
	return fmt.Sprintf("%d", spots)
}
