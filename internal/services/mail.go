package services

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

func SendImportNotification(toEmail, studyCode string, subjectCount int) error {
	from := mail.NewEmail("SendHub", os.Getenv("NOTIFICATION_FROM_EMAIL"))
	subject := fmt.Sprintf("Study %s has finished importing", studyCode)
	to := mail.NewEmail("SendHub User", toEmail)

	htmlContent := fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f4f4f4; text-align: center;">
			<div style="background-color: #ffffff; border-radius: 8px; padding: 30px; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1); display: inline-block; text-align: center;">
				<h1 style="color: #2c3e50; margin-bottom: 20px;">Import Complete</h1>
				<p>Hello,</p>
				<p>Your submission archive for study <strong>%s</strong> has been imported successfully.</p>
				<p>%d subjects are now available for browsing.</p>
				<p>Best regards,<br>The SendHub Team</p>
			</div>
		</div>
        `, studyCode, subjectCount)

	plainTextContent := fmt.Sprintf("Hello, your submission archive for study %s has been imported successfully. %d subjects are now available.", studyCode, subjectCount)

	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	_, err := client.Send(message)
	if err != nil {
		return err
	}
	return nil
}
