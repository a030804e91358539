package mapping

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// DumpDir is where suggestion dumps land unless a caller picks another
// directory.
const DumpDir = "logs/ai_debug"

// SaveSuggestionDump writes the headers sent to the model and what came
// back, for later inspection. It returns the path of the new file.
func SaveSuggestionDump(dir string, source, target []string, suggestions []Suggestion, suggestErr error) (string, error) {
	if dir == "" {
		dir = DumpDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create dump directory: %w", err)
	}

	now := time.Now()
	path := filepath.Join(dir, fmt.Sprintf("ai_mapping_%s.txt", now.Format("2006-01-02_15-04-05")))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create dump file: %w", err)
	}
	defer file.Close()

	writeDump(file, now, source, target, suggestions, suggestErr)
	return path, nil
}

func writeDump(w io.Writer, at time.Time, source, target []string, suggestions []Suggestion, suggestErr error) {
	fmt.Fprintf(w, "AI Mapping Debug - %s\n", at.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "===========================================\n\n")

	fmt.Fprintf(w, "SOURCE COLUMNS SENT TO AI (%d):\n", len(source))
	for i, col := range source {
		fmt.Fprintf(w, "%d. %s\n", i+1, col)
	}

	fmt.Fprintf(w, "\nTARGET COLUMNS (%d):\n", len(target))
	for i, col := range target {
		fmt.Fprintf(w, "%d. %s\n", i+1, col)
	}

	fmt.Fprintf(w, "\nAI RESPONSE:\n")
	switch {
	case suggestErr != nil:
		fmt.Fprintf(w, "ERROR: %v\n", suggestErr)
	case len(suggestions) == 0:
		fmt.Fprintf(w, "No mappings generated (all were NO_MATCH or low confidence)\n")
	default:
		fmt.Fprintf(w, "SUCCESS - Generated %d mappings:\n", len(suggestions))
		for i, s := range suggestions {
			fmt.Fprintf(w, "%d. '%s' → '%s' (%.2f confidence)\n", i+1, s.Source, s.Target, s.Confidence)
		}
	}

	fmt.Fprintf(w, "\n===========================================\n")
}
