package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"oem719parse/internal/logreader"
	"oem719parse/internal/oem719"
	"oem719parse/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [patterns...]",
	Short: "Count message types in one or more receiver logs",
	Long: `Summary scans whole log files (no offset seek, no duration budget) and
prints a per-message-type occurrence count. It is best-effort: malformed
lines still count toward their marker's type.

Glob patterns are supported, including recursive ones:
  oem719parse summary "logs/**/*.txt"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

type logSummary struct {
	Lines  int
	Locked bool
	Counts map[oem719.MessageType]int
}

// summarizeLog counts message-type marker occurrences line by line. It
// intentionally does not decode anything (summary is best-effort).
func summarizeLog(r io.Reader) (logSummary, error) {
	s := logSummary{Counts: map[oem719.MessageType]int{}}

	sc := bufio.NewScanner(r)
	// Allow reasonably long lines.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		s.Lines++
		if strings.Contains(line, logreader.LockMarker) {
			s.Locked = true
		}
		if t, ok := oem719.Classify(line); ok {
			s.Counts[t]++
		}
	}
	if err := sc.Err(); err != nil {
		return s, err
	}
	return s, nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	var paths []string
	for _, pattern := range args {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files matched: %v", args)
	}

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		s, err := summarizeLog(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("scan %s: %w", path, err)
		}
		printLogSummary(os.Stdout, path, s)
	}
	return nil
}

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	styleLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleCount = lipgloss.NewStyle().Bold(true)
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

func printLogSummary(w io.Writer, path string, s logSummary) {
	fmt.Fprintln(w, styleTitle.Render(path))
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("lines:"), styleCount.Render(fmt.Sprintf("%d", s.Lines)))
	if !s.Locked {
		fmt.Fprintf(w, "  %s\n", styleWarn.Render("no "+logreader.LockMarker+" marker seen"))
	}
	for _, t := range oem719.Channels {
		if t == oem719.TypeRAW {
			continue
		}
		fmt.Fprintf(w, "  %s %s\n",
			styleLabel.Render(fmt.Sprintf("%-10s", string(t)+":")),
			styleCount.Render(fmt.Sprintf("%d", s.Counts[t])))
	}
}

// printRunSummary reports the outcome of a parse run: final state, line and
// per-channel admitted counts.
func printRunSummary(w io.Writer, res pipeline.Result, outputDir string) {
	fmt.Fprintln(w, styleTitle.Render("parsing "+res.State.String()))
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("lines:"), styleCount.Render(fmt.Sprintf("%d", res.Lines)))
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("elapsed:"), styleCount.Render(fmt.Sprintf("%.1fs", res.Elapsed)))
	for _, t := range oem719.Channels {
		fmt.Fprintf(w, "  %s %s\n",
			styleLabel.Render(fmt.Sprintf("%-10s", string(t)+":")),
			styleCount.Render(fmt.Sprintf("%d", res.Counts[t])))
	}
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("output:"), outputDir)
}
