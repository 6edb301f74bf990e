package audit

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestAppend_LineFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verification_log.txt")
	l := New(path, testLogger())

	l.Append("SUCCESS", "Alice", "482913")
	l.Append("ERROR - Code too short", "Bob", "123")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), data)
	}

	// [YYYY-MM-DD HH:MM:SS] STATUS: Player=<name>, Code=<code>
	re := regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] .+: Player=.+, Code=.+$`)
	for _, line := range lines {
		if !re.MatchString(line) {
			t.Errorf("line %q does not match audit format", line)
		}
	}

	if !strings.HasSuffix(lines[0], "SUCCESS: Player=Alice, Code=482913") {
		t.Errorf("line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "ERROR - Code too short: Player=Bob, Code=123") {
		t.Errorf("line = %q", lines[1])
	}
}

func TestAppend_UnwritablePathIsSwallowed(t *testing.T) {
	// The audit path is a directory, so the open fails; Append must not
	// panic or surface anything.
	l := New(t.TempDir(), testLogger())
	l.Append("SUCCESS", "Alice", "482913")
}
