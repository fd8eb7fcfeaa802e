package cmd

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptMeetingTypeByNumber(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("1\n"))

	got, err := promptMeetingType(reader)
	require.NoError(t, err)
	assert.Equal(t, "executive", got)
}

func TestPromptMeetingTypeByName(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("hr_subcommittee\n"))

	got, err := promptMeetingType(reader)
	require.NoError(t, err)
	assert.Equal(t, "hr_subcommittee", got)
}

func TestPromptMeetingTypeRejectsInvalid(t *testing.T) {
	_, err := promptMeetingType(bufio.NewReader(strings.NewReader("standup\n")))
	assert.Error(t, err)

	_, err = promptMeetingType(bufio.NewReader(strings.NewReader("42\n")))
	assert.Error(t, err)
}

func TestPromptLine(t *testing.T) {
	got, err := promptLine(bufio.NewReader(strings.NewReader("  Weekly sync  \n")), "")
	require.NoError(t, err)
	assert.Equal(t, "Weekly sync", got)

	_, err = promptLine(bufio.NewReader(strings.NewReader("\n")), "")
	assert.Error(t, err)
}

func TestNameList(t *testing.T) {
	assert.Empty(t, nameList(nil))
	assert.Equal(t, "(Alice, Bob)", nameList([]string{"Alice", "Bob"}))
}
