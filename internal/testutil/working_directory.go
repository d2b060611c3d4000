package testutil

import (
	"os"
	"testing"
)

// ChangeWorkingDirectory switches to dir for the rest of the test and
// returns the previous working directory, which is restored on cleanup.
func ChangeWorkingDirectory(t testing.TB, dir string) string {
	t.Helper()

	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("change working directory to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Errorf("restore working directory %s: %v", orig, err)
		}
	})
	return orig
}
