package flags

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"
)

func AddSince(cmd *cobra.Command) {
	cmd.Flags().
		String(
			"since",
			"",
			"Only show bookmarks added after this date (e.g. 2024-01-31, \"Jan 31 2024\", 1706659200)",
		)
}

// HandleSince parses --since in local time. An empty flag yields the zero time.
func HandleSince(cmd *cobra.Command) (time.Time, error) {
	raw, err := cmd.Flags().GetString("since")
	if err != nil || raw == "" {
		return time.Time{}, err
	}
	return ParseSince(raw)
}

func ParseSince(raw string) (time.Time, error) {
	t, err := dateparse.ParseLocal(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --since %q: %w", raw, err)
	}
	return t, nil
}
