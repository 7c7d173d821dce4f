package reconstruct

import "strings"

// promptHeader is the fixed instruction block every reconstruction starts
// with. Clauses for responsive design, interactivity, and style organization
// are appended conditionally; the output-format constraint always comes last.
const promptHeader = `You are an expert web developer specializing in pixel-perfect website recreation. Your task is to create a complete, self-contained HTML file that exactly replicates the provided website.

CRITICAL REQUIREMENTS:
1. **Complete HTML Structure**: Create a full HTML document with DOCTYPE, head, and body
2. **Embedded CSS**: All styles must be in a <style> tag within <head> - NO external stylesheets
3. **Self-contained**: The file must work independently when opened in any browser
4. **Pixel-perfect recreation**: Match colors, fonts, spacing, and layout exactly
5. **Semantic HTML**: Use proper HTML5 semantic elements (header, nav, main, section, footer)

TECHNICAL SPECIFICATIONS:`

const promptResponsive = `
6. **Responsive Design**: Implement mobile-first responsive design with appropriate breakpoints
7. **Flexible Layout**: Use CSS Grid and Flexbox for modern, flexible layouts`

const promptInteractive = `
8. **Interactive Elements**: Add hover effects, transitions, and basic JavaScript interactions
9. **Form Functionality**: Make forms functional with basic validation`

const promptEmbeddedStyles = `
10. **Style Organization**: Organize CSS with clear sections: reset, typography, layout, components, utilities`

const promptFooter = `

LAYOUT ANALYSIS:
- Carefully analyze the screenshot for exact spacing, colors, and typography
- Pay attention to navigation structure, content hierarchy, and footer design
- Replicate any visual effects, shadows, gradients, or animations
- Ensure proper font choices and text styling

OUTPUT FORMAT:
Provide ONLY the complete HTML code - no explanations, no markdown code blocks, just the raw HTML that can be saved as a .html file and opened directly in a browser.`

// buildInstructions assembles the instruction template from the feature flags.
func buildInstructions(responsive, interactive bool, styleApproach string) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	if responsive {
		b.WriteString(promptResponsive)
	}
	if interactive {
		b.WriteString(promptInteractive)
	}
	if styleApproach == "embedded" {
		b.WriteString(promptEmbeddedStyles)
	}
	b.WriteString(promptFooter)
	return b.String()
}

// buildPrompt combines the instructions with the snapshot analysis into the
// single text part sent to the model.
func buildPrompt(instructions, context string) string {
	return instructions +
		"\n\nWebsite Analysis:\n" + context +
		"\n\nPlease recreate this website as a complete HTML file with embedded CSS and any necessary JavaScript:"
}
