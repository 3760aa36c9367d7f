package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emrgen/page"
	"github.com/emrgen/page/internal/config"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const timeFormat = "2006-01-02 15:04:05"

// withClient opens a client from the loaded config for the duration of f.
func withClient(f func(ctx context.Context, client *page.Client) error) {
	cfg := config.LoadConfig()
	config.SetupLogging(cfg)

	ctx := context.Background()
	client, err := page.NewClient(ctx, cfg)
	if err != nil {
		logrus.Error(err)
		return
	}
	defer client.Close()

	if err := f(ctx, client); err != nil {
		logrus.Error(err)
	}
}

func printField(label, value string) {
	color.Set(color.FgCyan)
	fmt.Print(label)
	color.Unset()
	fmt.Printf(": %s\n", value)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(timeFormat)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func truncate(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= n {
		return string(runes)
	}

	return string(runes[:n]) + "..."
}

func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if !cmd.Flag(required).Changed {
			missingFlags = append(missingFlags, required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		var msg string
		for _, f := range missingFlags {
			msg += fmt.Sprintf("--%s ", f)
		}

		color.Red("missing: %s\n", msg)
		if len(providedFlags) > 0 {
			provided := strings.Join(providedFlags, " ")
			color.Green("provide: %s\n", provided)
		}

		cmd.Println("")
		cmd.Usage()

		return true
	}

	return false
}
