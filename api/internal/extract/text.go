package extract

import (
	"fmt"
	"os"
	"strings"
)

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// extractText reads the file as UTF-8, silently dropping invalid byte
// sequences, and normalises CRLF/CR line endings to LF.
func extractText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return newlines.Replace(strings.ToValidUTF8(string(b), "")), nil
}
