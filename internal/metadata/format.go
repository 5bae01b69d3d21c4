// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Attachment categories, in display order.
const (
	CategoryAgenda     = "agenda"
	CategoryMinutes    = "minutes"
	CategoryAttachment = "attachment"
	CategoryDocument   = "document"
)

var categoryOrder = map[string]int{
	CategoryAgenda:     0,
	CategoryMinutes:    1,
	CategoryAttachment: 2,
	CategoryDocument:   3,
}

var (
	attachmentLetter = regexp.MustCompile(`(?i)attachment[_\s]+([a-z])`)
	attachmentTitle  = regexp.MustCompile(`(?i)attachment[_\s]+[a-z][_\s]*-[_\s]*(.+)\.(pdf|docx?)`)
	folderDate       = regexp.MustCompile(`_(\d{4}-\d{2}-\d{2})`)
	filenameDate     = regexp.MustCompile(`(\d{4})[\s_-](\d{2})[\s_-](\d{2})`)
	meetingNumber    = regexp.MustCompile(`meeting-(\d+)`)
)

// Category describes how an attachment is labelled in the app.
type Category struct {
	Type  string
	Label string
	Title string
}

// Categorize classifies a document by its filename: agenda, minutes, a
// lettered attachment (with a title taken from the filename when present),
// or a generic document.
func Categorize(filename string) Category {
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "agenda"):
		return Category{Type: CategoryAgenda, Label: "Agenda", Title: "Agenda"}
	case strings.Contains(lower, "minutes"):
		return Category{Type: CategoryMinutes, Label: "Minutes", Title: "Minutes"}
	}

	if m := attachmentLetter.FindStringSubmatch(filename); m != nil {
		letter := strings.ToUpper(m[1])
		label := "Attachment " + letter
		title := label
		if tm := attachmentTitle.FindStringSubmatch(filename); tm != nil {
			title = strings.ReplaceAll(tm[1], "_", " ")
		}
		return Category{Type: CategoryAttachment, Label: label, Title: title}
	}

	return Category{Type: CategoryDocument, Label: "Document", Title: "Document"}
}

// ParseDate returns YYYY-MM-DD from the folder name ("meeting-07_2008-01-24")
// or, failing that, from a date embedded in the filename. It returns ""
// when neither carries one.
func ParseDate(folderName, fileName string) string {
	if m := folderDate.FindStringSubmatch(folderName); m != nil {
		return m[1]
	}
	if m := filenameDate.FindStringSubmatch(fileName); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
	}
	return ""
}

// MeetingNumber extracts N from "meeting-N...", or 0.
func MeetingNumber(folderName string) int {
	m := meetingNumber.FindStringSubmatch(folderName)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// FormatDateDisplay renders "2007-06-22" as "June 22, 2007".
func FormatDateDisplay(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "Unknown date"
	}
	return t.Format("January 2, 2006")
}

// FormatDuration renders seconds as "1h 50m" or "45m".
func FormatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatFileSize renders a byte count as "1.2 GB", "134 MB", "56 KB" or "12 B".
// Halves round up.
func FormatFileSize(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", math.Round(float64(bytes)/gb*10)/10)
	case bytes >= mb:
		return fmt.Sprintf("%.0f MB", math.Round(float64(bytes)/mb))
	case bytes >= kb:
		return fmt.Sprintf("%.0f KB", math.Round(float64(bytes)/kb))
	}
	return fmt.Sprintf("%d B", bytes)
}

// Title names the meeting from its audio filename.
func Title(audioFilename string) string {
	switch {
	case strings.Contains(audioFilename, "Board call"):
		return "Clear Fund Board Call"
	case strings.Contains(audioFilename, "GiveWell"):
		return "GiveWell Board Meeting"
	}
	return "Clear Fund Board Meeting"
}
