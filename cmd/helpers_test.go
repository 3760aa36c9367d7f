package cmd

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/emrgen/page/internal/model"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestParseAccess(t *testing.T) {
	access, err := parseAccess("")
	assert.NoError(t, err)
	assert.Equal(t, model.AccessPublic, access)

	access, err = parseAccess("private")
	assert.NoError(t, err)
	assert.Equal(t, model.AccessPrivate, access)

	_, err = parseAccess("secret")
	assert.Error(t, err)
}

func TestCheckMissingFlags(t *testing.T) {
	var pageID, ownerID string
	command := &cobra.Command{Use: "test"}
	command.Flags().StringVarP(&pageID, "page-id", "p", "", "")
	command.Flags().StringVarP(&ownerID, "owner-id", "o", "", "")

	assert.True(t, checkMissingFlags(command, []string{"page-id", "owner-id"}))

	assert.NoError(t, command.Flags().Set("page-id", "p1"))
	assert.NoError(t, command.Flags().Set("owner-id", "o1"))
	assert.False(t, checkMissingFlags(command, []string{"page-id", "owner-id"}))
}

func TestFormatHelpers(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "2026-03-04 05:06:07", formatTime(&at))
	assert.Equal(t, "", formatTime(nil))

	value := "x"
	assert.Equal(t, "x", deref(&value))
	assert.Equal(t, "", deref(nil))

	assert.Equal(t, "abc", truncate(" abc ", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	assert.Equal(t, "héllo", truncate("héllo", 5))
	assert.Equal(t, "日本...", truncate("日本語のページ", 2))
	assert.True(t, utf8.ValidString(truncate("ünïcödé", 3)))
}

func TestCommandsRegistered(t *testing.T) {
	for _, path := range [][]string{
		{"db", "migrate"},
		{"worker"},
		{"create"},
		{"version", "restore"},
		{"log", "backlinks"},
		{"block", "move"},
		{"link", "add"},
		{"config", "set"},
	} {
		found, _, err := rootCmd.Find(path)
		if assert.NoError(t, err, path) {
			assert.Equal(t, path[len(path)-1], found.Name())
		}
	}
}
