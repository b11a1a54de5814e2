package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/wasm-bridge/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	skipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// styled applies style only when stdout is a terminal, so piped output
// stays plain.
func styled(style lipgloss.Style, s string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return s
	}
	return style.Render(s)
}

func renderSuite(res pipeline.SuiteResult) string {
	switch {
	case res.Skipped:
		return fmt.Sprintf("  %-8s %s\n", res.Name, styled(skipStyle, "SKIP"))
	case res.Passed:
		return fmt.Sprintf("  %-8s %s  (%s)\n", res.Name, styled(passStyle, "PASS"), res.Duration.Round(time.Millisecond))
	default:
		return fmt.Sprintf("  %-8s %s  %v\n", res.Name, styled(failStyle, "FAIL"), res.Err)
	}
}

func renderTestReport(report *pipeline.TestReport) string {
	var b strings.Builder
	b.WriteString(styled(titleStyle, "Test results") + "\n")
	b.WriteString(renderSuite(report.Native))
	b.WriteString(renderSuite(report.Bridged))
	return b.String()
}

func renderBench(res pipeline.BenchResult) string {
	switch {
	case res.Skipped:
		return fmt.Sprintf("  %-8s %s\n", res.Name, styled(skipStyle, "skipped"))
	case res.Err != nil:
		return fmt.Sprintf("  %-8s %s  %v\n", res.Name, styled(failStyle, "error"), res.Err)
	default:
		return fmt.Sprintf("  %-8s %s\n", res.Name, res.Duration.Round(time.Millisecond))
	}
}

func renderBenchReport(report *pipeline.BenchReport) string {
	var b strings.Builder
	b.WriteString(styled(titleStyle, fmt.Sprintf("Benchmark (bridged: %d iterations)", report.Iterations)) + "\n")
	b.WriteString(renderBench(report.Native))
	b.WriteString(renderBench(report.Bridged))

	// Diagnostic comparison only; never a gate.
	if report.Native.Err == nil && report.Bridged.Err == nil &&
		!report.Bridged.Skipped && report.Native.Duration > 0 {
		ratio := float64(report.Bridged.Duration) / float64(report.Native.Duration)
		b.WriteString(fmt.Sprintf("  bridged/native ratio: %.2fx\n", ratio))
	}
	return b.String()
}
