package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	companyName   = "XcelRent"
	baseURL       = os.Getenv("BASE_URL")
)

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<!-- <img src="%s/static/images/logo.png" alt="XcelRent" style="width: 200px; height: auto;"> -->
			<h2 style="color: #E53935; margin: 0;">XcelRent</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
			<p>© 2025 XcelRent. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	// Headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"
	headers["X-Priority"] = "1"
	headers["X-MSMail-Priority"] = "High"
	headers["X-Mailer"] = "XcelRent-Mailer"
	headers["List-Unsubscribe"] = fmt.Sprintf("<%s>", emailFrom)

	// Build message
	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, emailFrom, to, []byte(message))
	if err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}

	log.Printf("Successfully sent email to recipients: %v", to)
	return nil
}

func SendEmailVerificationOTP(email, otp string) error {
	subject := "Verify Your Email - XcelRent"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Verify Your Email</h1>
					<p>Hello,</p>
					<p>Thank you for creating an XcelRent account. Use the code below to verify your email address:</p>
					<div style="text-align: center; margin: 30px 0;">
						<span style="font-size: 32px; font-weight: bold; letter-spacing: 8px; color: #E53935;">%s</span>
					</div>
					<p>This code expires in 15 minutes. If you did not create an account, you can ignore this email.</p>
					<p>Best regards,<br>The XcelRent Team</p>
				</div>`+emailFooter,
		baseURL, otp)

	return sendEmail([]string{email}, subject, body)
}

func SendPasswordResetEmail(email, otp string) error {
	subject := "Password Reset Code - XcelRent"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Password Reset</h1>
					<p>Hello,</p>
					<p>We received a request to reset your XcelRent password. Use the code below to continue:</p>
					<div style="text-align: center; margin: 30px 0;">
						<span style="font-size: 32px; font-weight: bold; letter-spacing: 8px; color: #E53935;">%s</span>
					</div>
					<p>This code expires in 15 minutes. If you did not request a reset, you can ignore this email.</p>
					<p>Best regards,<br>The XcelRent Team</p>
				</div>`+emailFooter,
		baseURL, otp)

	return sendEmail([]string{email}, subject, body)
}

// SendBookingConfirmationEmail recaps the booking to the renter right after
// the wizard completes.
func SendBookingConfirmationEmail(email, renterName, carModel, plateNumber, reference string, totalPrice, reservationFee, remainingBalance float64) error {
	subject := "Booking Received - XcelRent"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Booking Received</h1>
					<p>Hello %s,</p>
					<p>We received your booking for <strong>%s</strong> (Plate: <strong>%s</strong>).</p>
					<p>Booking reference: <strong>%s</strong></p>
					<table style="width: 100%%; margin: 20px 0;">
						<tr><td>Rental Fee</td><td style="text-align: right;">₱%.2f</td></tr>
						<tr><td>Reservation Fee (paid)</td><td style="text-align: right;">-₱%.2f</td></tr>
						<tr><td><strong>Remaining Balance</strong></td><td style="text-align: right;"><strong>₱%.2f</strong></td></tr>
					</table>
					<p>Your booking is pending review. You will be notified once it is confirmed.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/trips" style="background-color: #E53935; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">View My Trips</a>
					</div>
					<p>Best regards,<br>The XcelRent Team</p>
				</div>`+emailFooter,
		baseURL, renterName, carModel, plateNumber, reference, totalPrice, reservationFee, remainingBalance, baseURL)

	return sendEmail([]string{email}, subject, body)
}

// SendBookingStatusEmail notifies the renter of a status change made by an
// admin or a cancellation.
func SendBookingStatusEmail(email, carModel, reference, status string) error {
	subject := fmt.Sprintf("Booking %s - XcelRent", status)
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Booking %s</h1>
					<p>Hello,</p>
					<p>Your booking <strong>%s</strong> for <strong>%s</strong> is now <strong>%s</strong>.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/trips" style="background-color: #E53935; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">View My Trips</a>
					</div>
					<p>Best regards,<br>The XcelRent Team</p>
				</div>`+emailFooter,
		baseURL, status, reference, carModel, status, baseURL)

	return sendEmail([]string{email}, subject, body)
}
