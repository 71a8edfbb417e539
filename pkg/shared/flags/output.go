package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const (
	FormatPlain    = "plain"
	FormatMarkdown = "markdown"
	FormatURLs     = "urls"
	FormatJSON     = "json"
)

var formats = []string{FormatPlain, FormatMarkdown, FormatURLs, FormatJSON}

func AddFormat(cmd *cobra.Command) {
	cmd.Flags().
		StringP(
			"format",
			"f",
			FormatPlain,
			"Output format: "+strings.Join(formats, ", "),
		)
}

func HandleFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", err
	}
	format = strings.ToLower(strings.TrimSpace(format))
	for _, f := range formats {
		if f == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want %s)", format, strings.Join(formats, ", "))
}

func AddCopy(cmd *cobra.Command) {
	cmd.Flags().BoolP("copy", "c", false, "Copy the first result's URL to the clipboard")
}

func HandleCopy(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("copy")
	return v
}

func AddOpen(cmd *cobra.Command) {
	cmd.Flags().BoolP("open", "o", false, "Open the first result in the browser")
}

func HandleOpen(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("open")
	return v
}

func AddNoHistory(cmd *cobra.Command) {
	cmd.Flags().Bool("no-history", false, "Do not record this search in history")
}

func HandleNoHistory(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("no-history")
	return v
}
