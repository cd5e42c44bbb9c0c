// Package console is the user-facing surface: banner, panels, prompts, and
// notices on stdout. It holds no conversation state; everything it prints
// is handed to it fully formed.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	cyan    = lipgloss.Color("14")
	green   = lipgloss.Color("10")
	yellow  = lipgloss.Color("11")
	red     = lipgloss.Color("9")
	magenta = lipgloss.Color("13")
	gray    = lipgloss.Color("242")

	bannerStyle   = lipgloss.NewStyle().Bold(true).Foreground(cyan)
	infoStyle     = lipgloss.NewStyle().Foreground(cyan)
	successStyle  = lipgloss.NewStyle().Foreground(green)
	warnStyle     = lipgloss.NewStyle().Foreground(yellow)
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(red)
	dimStyle      = lipgloss.NewStyle().Foreground(gray)
	promptStyle   = lipgloss.NewStyle().Bold(true).Foreground(green)
	toolLabel     = lipgloss.NewStyle().Bold(true).Foreground(yellow)
	toolNameStyle = lipgloss.NewStyle().Foreground(magenta)
)

const banner = `
╔═══════════════════════════════════════════════════════════╗
║                                                           ║
║   🤖  S I D E K I C K                                     ║
║                                                           ║
║   ▸ Minimalist AI coding assistant                        ║
║   ▸ Anthropic Claude & AWS Bedrock                        ║
║   ▸ Type 'exit' or 'quit' to terminate                    ║
║                                                           ║
╚═══════════════════════════════════════════════════════════╝
`

// ToolEntry is one row of the tools panel.
type ToolEntry struct {
	Name        string
	Description string
}

// Console renders everything the user sees. Markdown goes through glamour;
// when no renderer could be built it degrades to the raw text.
type Console struct {
	out io.Writer
	md  *glamour.TermRenderer
}

func New(out io.Writer) *Console {
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		md = nil
	}
	return &Console{out: out, md: md}
}

func (c *Console) markdown(text string) string {
	if c.md == nil {
		return text
	}
	out, err := c.md.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func (c *Console) panel(title, body string, border lipgloss.Color) {
	head := lipgloss.NewStyle().Bold(true).Foreground(border).Render(title)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(head + "\n" + body)
	fmt.Fprintln(c.out, box)
}

func (c *Console) Banner() {
	fmt.Fprintln(c.out, bannerStyle.Render(banner))
}

func (c *Console) Print(format string, a ...any) {
	fmt.Fprintf(c.out, format+"\n", a...)
}

func (c *Console) Info(format string, a ...any) {
	fmt.Fprintln(c.out, infoStyle.Render(fmt.Sprintf(format, a...)))
}

func (c *Console) Success(format string, a ...any) {
	fmt.Fprintln(c.out, successStyle.Render(fmt.Sprintf(format, a...)))
}

func (c *Console) Warn(format string, a ...any) {
	fmt.Fprintln(c.out, warnStyle.Render(fmt.Sprintf(format, a...)))
}

func (c *Console) Error(format string, a ...any) {
	fmt.Fprintln(c.out, errorStyle.Render(fmt.Sprintf(format, a...)))
}

func (c *Console) Dim(format string, a ...any) {
	fmt.Fprintln(c.out, dimStyle.Render(fmt.Sprintf(format, a...)))
}

func (c *Console) Header(format string, a ...any) {
	fmt.Fprintln(c.out, bannerStyle.Render(fmt.Sprintf(format, a...)))
}

func (c *Console) Goodbye() {
	fmt.Fprintln(c.out, "\n"+bannerStyle.Render("👋 Goodbye!"))
}

// Prompt prints the input prompt without a trailing newline so the user
// types on the same line.
func (c *Console) Prompt() {
	fmt.Fprintf(c.out, "\n%s %s ",
		promptStyle.Render("💬 Your request"),
		dimStyle.Render("(or type 'help'):"))
}

// SelectionEcho announces that a typed number resolved to an option.
func (c *Console) SelectionEcho(text string) {
	fmt.Fprintf(c.out, "%s %s\n\n", successStyle.Render("✓ Selected:"), text)
}

// AssistantPanel renders assistant text as markdown inside a cyan panel.
func (c *Console) AssistantPanel(text string) {
	c.panel("🤖 Assistant", c.markdown(text), cyan)
}

// ToolNotice announces a tool invocation before it runs.
func (c *Console) ToolNotice(name, args string) {
	fmt.Fprintf(c.out, "\n%s %s\n%s\n\n",
		toolLabel.Render("🔧 Executing tool:"),
		toolNameStyle.Render(name),
		dimStyle.Render("Arguments: "+args))
}

// ToolResult shows a finished call: successes get a green panel, failures
// a single red line so the transcript stays readable.
func (c *Console) ToolResult(name, result string, ok bool) {
	if !ok {
		fmt.Fprintln(c.out, errorStyle.Render("✗ "+result))
		return
	}
	c.panel("✓ Tool Result: "+name, result, green)
}

// QuickStart renders the startup panel: seeded options, command hints, and
// the active provider.
func (c *Console) QuickStart(provider string, opts []string) {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(cyan).Render("🚀 What would you like to do?"))
	b.WriteString("\n\n")
	for i, opt := range opts {
		fmt.Fprintf(&b, "**%d.** %s\n", i+1, opt)
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Commands: help | tools | config | exit"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("💡 Type a number (1-%d) or describe your request", len(opts))))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("🤖 Using: " + provider))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cyan).
		Padding(1, 2).
		Render(b.String())
	fmt.Fprintln(c.out, box)
}

const helpText = `
# 🆘 Help

## Available Commands:
- **help**: Display this help message
- **tools**: List all available tools
- **config**: Show current configuration
- **exit/quit/q**: Exit the assistant

## Example Queries:
- "Show me the content of main.go"
- "What tools do you have?"
- "Run the unit tests"
- "Search for TODO in the project"
- "Read the README.md file"

## Tips:
- Be specific in your requests
- The assistant can read files, run tests, search the project, and more
- Every turn is saved under the data dir; browse it with sidekick inspect
- Switch between Anthropic and Bedrock by setting LLM_PROVIDER in .env
`

func (c *Console) HelpPanel() {
	c.panel("Help", c.markdown(helpText), cyan)
}

// ConfigPanel shows the active settings and how to change providers.
func (c *Console) ConfigPanel(provider string, temperature float64, maxTokens int64, region, dataDir string) {
	text := fmt.Sprintf(`
# ⚙️ Current Configuration

**LLM Provider:** %s
**Temperature:** %g
**Max Tokens:** %d
**AWS Region:** %s
**Data Dir:** %s

## To Switch Providers:
Edit your .env file and set:
- LLM_PROVIDER=anthropic (requires ANTHROPIC_API_KEY)
- LLM_PROVIDER=bedrock (requires AWS credentials)

## Available Models:
- **Anthropic:** claude-3-5-sonnet-20241022, claude-3-haiku-20240307
- **Bedrock:** us.anthropic.claude-3-5-sonnet-20241022-v2:0, anthropic.claude-3-haiku-20240307-v1:0
`, provider, temperature, maxTokens, region, dataDir)
	c.panel("Configuration", c.markdown(text), cyan)
}

// ToolsPanel lists tools grouped by origin.
func (c *Console) ToolsPanel(local, mcp []ToolEntry) {
	var b strings.Builder
	b.WriteString(toolLabel.Render("📁 Local Tools"))
	b.WriteString("\n")
	writeToolGroup(&b, local)
	b.WriteString(toolNameStyle.Render("🌐 MCP Tools"))
	b.WriteString("\n")
	writeToolGroup(&b, mcp)
	c.panel("🔧 Available Tools", strings.TrimRight(b.String(), "\n"), cyan)
}

func writeToolGroup(b *strings.Builder, entries []ToolEntry) {
	if len(entries) == 0 {
		b.WriteString(dimStyle.Render("  (none)"))
		b.WriteString("\n")
		return
	}
	for _, e := range entries {
		desc := e.Description
		if i := strings.IndexByte(desc, '\n'); i >= 0 {
			desc = desc[:i]
		}
		fmt.Fprintf(b, "  • %s: %s\n", e.Name, desc)
	}
}
