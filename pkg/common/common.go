// Package common has the exit codes of the commands and a helper the
// tests use.
package common

import (
	"fmt"
	"io"
	"os"
)

const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

// WrtTemp writes a string to a temporary file and returns the
// filename. The suffix matters to code that looks at extensions.
func WrtTemp(s, suffix string) (string, error) {
	fTmp, err := os.CreateTemp("", "_del_me_testing*"+suffix)
	if err != nil {
		return "", fmt.Errorf("tempfile fail: %w", err)
	}
	if _, err := io.WriteString(fTmp, s); err != nil {
		fTmp.Close()
		return "", fmt.Errorf("writing string to temp file %v", fTmp.Name())
	}
	name := fTmp.Name()
	fTmp.Close()
	return name, nil
}
