package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/Amr-9/b58finder/pkg/format"
	"github.com/Amr-9/b58finder/pkg/keyinfo"
	"github.com/Amr-9/b58finder/pkg/recovery"
	"github.com/Amr-9/b58finder/pkg/search"
)

// Out is where the console writes. color.Output handles Windows consoles.
var Out io.Writer = color.Output

var (
	colorTitle  = color.New(color.FgCyan, color.Bold)
	colorLabel  = color.New(color.FgMagenta, color.Bold)
	colorOption = color.New(color.FgCyan)
	colorOK     = color.New(color.FgGreen)
	colorFound  = color.New(color.FgGreen, color.Bold)
	colorWarn   = color.New(color.FgYellow)
	colorError  = color.New(color.FgRed, color.Bold)
	colorDim    = color.New(color.Faint)
)

// ClearScreen clears the terminal
func ClearScreen() {
	fmt.Fprint(Out, "\033[H\033[2J")
}

// PrintWelcomeBanner shows the welcome screen
func PrintWelcomeBanner(version string) {
	fmt.Fprintln(Out)
	colorTitle.Fprintln(Out, "  ╔══════════════════════════════════════════════════════════╗")
	colorTitle.Fprintln(Out, "  ║   B58FINDER  ·  missing base-58 character recovery       ║")
	colorTitle.Fprintln(Out, "  ╚══════════════════════════════════════════════════════════╝")
	colorDim.Fprintf(Out, "     v%s\n\n", version)
}

// PrintSearchInfo displays what is about to be searched.
func PrintSearchInfo(input string, placeholder rune, t format.EncodingType, workers int) {
	missing := format.CountMissing(input, placeholder)
	fmt.Fprintf(Out, "\n    %s %s\n", colorFound.Sprint("🚀 SEARCHING"), highlight(input, placeholder))
	colorDim.Fprintf(Out, "    %s · %d missing · %s candidates · %d workers\n\n",
		t, missing, SearchSpace(missing), workers)
}

// highlight colors the placeholders of input.
func highlight(input string, placeholder rune) string {
	var b strings.Builder
	for _, c := range input {
		if c == placeholder {
			b.WriteString(colorWarn.Sprint(string(c)))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// SearchSpace renders 58^k, switching to powers once it no longer fits.
func SearchSpace(missing int) string {
	n := uint64(1)
	for i := 0; i < missing; i++ {
		if n > ^uint64(0)/58 {
			return fmt.Sprintf("58^%d", missing)
		}
		n *= 58
	}
	return FormatNumber(n)
}

// progressScale is the bar resolution.
const progressScale = 1000

// Progress renders search progress as a bar.
type Progress struct {
	bar   *progressbar.ProgressBar
	start time.Time
}

// NewProgress starts a progress bar on Out.
func NewProgress() *Progress {
	bar := progressbar.NewOptions64(
		progressScale,
		progressbar.OptionSetWriter(Out),
		progressbar.OptionSetDescription("    🔍 0 tested"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
	)
	return &Progress{bar: bar, start: time.Now()}
}

// Update moves the bar to p.
func (p *Progress) Update(s search.Progress) {
	p.bar.Describe(fmt.Sprintf("    🔍 %s tested │ %s", FormatNumber(s.Tested), FormatRate(s.Tested, time.Since(p.start))))
	_ = p.bar.Set64(int64(s.Fraction * progressScale))
}

// Finish completes and clears the bar.
func (p *Progress) Finish() {
	_ = p.bar.Finish()
}

// FormatRate formats candidates per second nicely
func FormatRate(tested uint64, elapsed time.Duration) string {
	rate := 0.0
	if elapsed > 0 {
		rate = float64(tested) / elapsed.Seconds()
	}
	if rate >= 1000000 {
		return fmt.Sprintf("%.1fM/s", rate/1000000)
	}
	if rate >= 1000 {
		return fmt.Sprintf("%.1fK/s", rate/1000)
	}
	return fmt.Sprintf("%.0f/s", rate)
}

// PrintResult shows the outcome of a search, with a description of every
// recovered string.
func PrintResult(r recovery.Result, t format.EncodingType, elapsed time.Duration) {
	fmt.Fprintln(Out)
	switch r.Status {
	case recovery.Success:
		colorFound.Fprintln(Out, "    ╔══════════════════════════════════════════════════════════╗")
		colorFound.Fprintf(Out, "    ║  ✨ FOUND %-47s║\n", plural(len(r.Results), "CANDIDATE"))
		colorFound.Fprintln(Out, "    ╚══════════════════════════════════════════════════════════╝")
		for i, s := range r.Results {
			printCandidate(i+1, s, t)
		}
	case recovery.Cancelled:
		colorWarn.Fprintln(Out, "    ⚠ Search cancelled.")
	default:
		if r.Err != nil {
			colorError.Fprintf(Out, "    ✗ %v\n", r.Err)
		} else {
			colorError.Fprintln(Out, "    ✗ No valid candidate found.")
		}
	}

	fmt.Fprintf(Out, "\n    ⏱  %s   │   📊 %s tested\n",
		FormatDuration(elapsed), FormatNumber(r.Tested))
	if r.Status == recovery.Success && t.IsPrivateKey() {
		colorError.Fprintln(Out, "    ⚠  KEEP YOUR PRIVATE KEY SECRET!")
	}
}

func printCandidate(n int, s string, t format.EncodingType) {
	fmt.Fprintf(Out, "\n    %s %s\n", colorLabel.Sprintf("[%d]", n), colorFound.Sprint(s))
	info, err := keyinfo.Inspect(s, t)
	if err != nil {
		colorError.Fprintf(Out, "        %v\n", err)
		return
	}
	for _, f := range info.Fields {
		fmt.Fprintf(Out, "        %s %s\n", colorDim.Sprintf("%-18s", f.Name), f.Value)
	}
	for _, a := range info.Addresses {
		fmt.Fprintf(Out, "        %s %s\n", colorOption.Sprintf("%-18s", a.Kind), a.Value)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %sS", n, word)
}

// PrintError prints an error line.
func PrintError(msg string, args ...any) {
	colorError.Fprintf(Out, "    ⚠ "+msg+"\n", args...)
}

// FormatNumber adds commas to large numbers
func FormatNumber(n uint64) string {
	s := fmt.Sprintf("%d", n)
	if n < 1000 {
		return s
	}
	result := make([]byte, 0, len(s)+(len(s)-1)/3)
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

// FormatDuration formats duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", h, m)
}
