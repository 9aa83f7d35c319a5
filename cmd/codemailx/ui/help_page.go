package ui

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `
# codeMAILX

A terminal client for managing cold-outreach email campaigns.

## Screens

| Key | Screen |
|-----|--------|
| **d** / 1 | Dashboard with account metrics |
| **c** / 2 | Your campaigns |
| **t** / 3 | Template directory |
| **h** / 4 | HR contact directory |
| **n** / 5 | New campaign wizard |
| **?** | This help |
| **q** | Quit |

## Campaign wizard

Four steps: details, template, placeholders, review. The step indicator at
the top shows completed steps; **esc** goes back one step, **enter**
advances when the step is complete. After saving you choose between
sending immediately or keeping the campaign Pending.

Sends are gated by your daily quota. The client blocks a send before any
network call when the selected recipient count exceeds what remains today.

## Lists

All list screens filter with **/** and refresh with **r**. The HR
directory also cycles pool scope with **g** and verification with **v**.

Press **esc** to leave this help.
`

// HelpPage renders the markdown help text.
type HelpPage struct {
	styles   Styles
	width    int
	rendered string
}

// NewHelpPage creates the help page.
func NewHelpPage(styles Styles) HelpPage {
	p := HelpPage{styles: styles, width: 100}
	p.render()
	return p
}

// SetSize updates the page dimensions and re-renders.
func (p *HelpPage) SetSize(w, h int) {
	if w != p.width {
		p.width = w
		p.render()
	}
}

func (p *HelpPage) render() {
	style := "light"
	if p.styles.Theme.IsDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(min(90, p.width-4)),
	)
	if err != nil {
		p.rendered = helpMarkdown
		return
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		p.rendered = helpMarkdown
		return
	}
	p.rendered = out
}

// View returns the rendered help.
func (p HelpPage) View() string {
	return p.rendered
}
