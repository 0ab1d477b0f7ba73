package instructions

import "sort"

// Server is the instruction text advertised to MCP clients during
// initialization.
const Server = `# Auth MCP Server

This server provides tools with OAuth authentication (Auth0) and optional Gmail access for the logged-in user.

## Available Tools

### greet_user
Greets the authenticated user by name.

### fetch_instructions
Retrieves specialized writing instruction templates.

**Parameters:**
- ` + "`prompt_name`" + ` (string): One of ` + "`write_blog_post`, `write_social_post`, `write_video_chapters`" + `

**Returns:** Instructions for the requested content type.

### link_my_gmail
Links the authenticated user's Gmail account to this server. Call once with a Google OAuth refresh token (e.g. from get_gmail_refresh_token script).

**Parameters:**
- ` + "`refresh_token`" + ` (string): Google OAuth refresh token

### list_my_recent_emails
Lists the most recent emails from the authenticated user's Gmail inbox. Requires Gmail to be linked first via ` + "`link_my_gmail`" + `.

**Parameters:**
- ` + "`max_results`" + ` (int, optional): Number of emails to return (1-20, default 10)

**Returns:** Subject, from, date, and snippet for each message.
`

// templates maps prompt names to their instruction text. The catalog is
// fixed at compile time.
var templates = map[string]string{
	"write_blog_post": `
Write a detailed blog post with:
- Engaging introduction
- Clear headings
- Practical examples
- Strong conclusion
`,

	"write_social_post": `
Write a short, engaging social media post with:
- Hook
- Value
- CTA
`,

	"write_video_chapters": `
Generate YouTube video chapters with:
- Timestamp format
- Clear topic labels
`,
}

// Get returns the instruction template for the given prompt name.
func Get(name string) (string, bool) {
	text, ok := templates[name]
	return text, ok
}

// Names returns the available prompt names in sorted order.
func Names() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
