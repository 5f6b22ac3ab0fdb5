package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlainOutputWhenNotTTY(t *testing.T) {
	var buf bytes.Buffer
	prev := out
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(prev) })

	Banner("0.1.0")
	KeyValue("Listen", "127.0.0.1:7390")
	Success("Sleep requested %s", Dim("(local)"))
	Error("boom: %d", 3)

	got := buf.String()
	require.NotContains(t, got, "\033[", "no ANSI codes for non-terminal writers")
	require.Contains(t, got, "hemu v0.1.0")
	require.Contains(t, got, "127.0.0.1:7390")
	require.Contains(t, got, "  ✔ Sleep requested (local)\n")
	require.Contains(t, got, "  ✖ boom: 3\n")
}
