package utils

import (
	"fmt"
	"html"
	"time"
)

const emailStyles = `
		body { font-family: 'Poppins', sans-serif; background-color: #f7f9fc; margin: 0; padding: 0; }
		.container { max-width: 620px; margin: 40px auto; background: #ffffff; border-radius: 16px;
			box-shadow: 0 10px 30px rgba(0, 0, 0, 0.08); overflow: hidden; border-top: 6px solid #1f6feb; }
		.header { background-color: #1f6feb; color: #ffffff; text-align: center; padding: 32px 20px 20px; }
		.header h1 { margin: 0; font-size: 24px; font-weight: 700; }
		.content { padding: 30px 36px; color: #333333; }
		.message { font-size: 15px; line-height: 1.8; color: #444444; margin-bottom: 14px; }
		.highlight { color: #1f6feb; font-weight: 600; }
		ul { padding-left: 22px; }
		ul li { margin-bottom: 8px; font-size: 15px; color: #555555; }
		.footer { background: #eef3fb; text-align: center; padding: 22px; font-size: 13px; color: #666666; }
		.warning { border-left: 4px solid #d97706; padding-left: 12px; }
		.success { border-left: 4px solid #15803d; padding-left: 12px; }
		.info { border-left: 4px solid #1f6feb; padding-left: 12px; }`

func WelcomeEmail(firstName string) (subject, body string) {
	subject = fmt.Sprintf("Welcome to FinTrack, %s!", firstName)

	body = fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1.0" />
	<title>Welcome to FinTrack</title>
	<style>%s
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>Welcome to FinTrack</h1></div>
		<div class="content">
			<p class="message">Hey %s,</p>
			<p class="message">
				Your account is ready. <span class="highlight">FinTrack</span> keeps your income,
				spending and savings in one place.
			</p>
			<ul>
				<li>Record income and expenses by category.</li>
				<li>Set monthly budgets and get alerted at 80%% and when you go over.</li>
				<li>Track savings goals until they are reached.</li>
				<li>See where your money goes with monthly trends.</li>
			</ul>
		</div>
		<div class="footer">&copy; %d FinTrack</div>
	</div>
</body>
</html>`, emailStyles, html.EscapeString(firstName), time.Now().Year())

	return subject, body
}

// NotificationEmail renders an in-app notification for delivery by mail.
func NotificationEmail(firstName, title, message, kind string) (subject, body string) {
	subject = "FinTrack: " + title

	body = fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8" />
	<title>%s</title>
	<style>%s
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>%s</h1></div>
		<div class="content">
			<p class="message">Hi %s,</p>
			<p class="message %s">%s</p>
			<p class="message">You can review all notifications in the FinTrack app.</p>
		</div>
		<div class="footer">&copy; %d FinTrack</div>
	</div>
</body>
</html>`,
		html.EscapeString(title), emailStyles, html.EscapeString(title),
		html.EscapeString(firstName), html.EscapeString(kind), html.EscapeString(message),
		time.Now().Year())

	return subject, body
}
