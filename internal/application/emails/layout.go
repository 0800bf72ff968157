package emails

import (
	"fmt"
	"html"
	"time"
)

const (
	themePrimary = "#0F766E"
	themeBgBody  = "#F3F4F6"
	themeText    = "#1F2937"
	themeMuted   = "#6B7280"
)

// Layout wraps content in the shared mail frame.
func Layout(contentHTML string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>NGO Connect</title>
  <style>
    body { margin: 0; padding: 0; background-color: %s; font-family: -apple-system, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; color: %s; }
    .content p { margin: 0 0 20px 0; font-size: 16px; line-height: 1.6; }
    .content h1 { font-size: 22px; margin: 0 0 16px 0; }
    .button { display: inline-block; background-color: %s; color: #ffffff !important; padding: 12px 28px; border-radius: 6px; text-decoration: none; font-weight: 600; }
    .footer { color: %s; font-size: 13px; }
  </style>
</head>
<body>
  <table role="presentation" width="100%%" cellspacing="0" cellpadding="0">
    <tr>
      <td align="center" style="padding: 32px 0;">
        <table role="presentation" width="600" cellspacing="0" cellpadding="0" style="background-color: #FFFFFF; border-radius: 8px;">
          <tr><td class="content" style="padding: 40px 48px 24px 48px;">%s</td></tr>
          <tr><td class="footer" align="center" style="padding: 0 48px 32px 48px;">&copy; %d NGO Connect</td></tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`, themeBgBody, themeText, themePrimary, themeMuted, contentHTML, time.Now().Year())
}

func welcomeContent(name string, isAdmin bool) string {
	next := "Add your skills so organisations looking for help can find you."
	if isAdmin {
		next = "Create your organisation profile and list the skills your projects need."
	}
	return fmt.Sprintf(`
    <h1>Karibu, %s!</h1>
    <p>Your NGO Connect account is ready.</p>
    <p>%s</p>
    <p>If you did not sign up for this account, you can ignore this email.</p>
`, html.EscapeString(name), next)
}
