package bot

import (
	"fmt"
	"strconv"
	"strings"

	"launchintel/internal/launch"
)

// ParseDaysArg parses the optional lookback argument of /recent.
// An empty argument returns 0, meaning the configured default.
func ParseDaysArg(args string) (int, error) {
	s := strings.TrimSpace(args)
	if s == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(strings.Fields(s)[0])
	if err != nil || days < 1 || days > launch.MaxRecentDays {
		return 0, fmt.Errorf("days must be between 1 and %d", launch.MaxRecentDays)
	}
	return days, nil
}

// ParseCallback splits callback data of the form "action:arg".
func ParseCallback(data string) (action, arg string, ok bool) {
	action, arg, ok = strings.Cut(data, ":")
	if !ok || action == "" {
		return "", "", false
	}
	return action, arg, true
}
