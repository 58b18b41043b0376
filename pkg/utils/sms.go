package utils

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
)

var (
	smsGatewayURL = os.Getenv("SMS_GATEWAY_URL")
	smsUsername   = os.Getenv("SMS_USERNAME")
	smsAPIKey     = os.Getenv("SMS_API_KEY")
)

func sendSMS(message string, recipients []string) error {
	if smsGatewayURL == "" {
		return fmt.Errorf("SMS gateway URL not set")
	}
	if smsUsername == "" {
		return fmt.Errorf("SMS gateway username not set")
	}
	if smsAPIKey == "" {
		return fmt.Errorf("SMS gateway API key not set")
	}

	data := url.Values{}
	data.Set("username", smsUsername)
	data.Set("to", strings.Join(recipients, ","))
	data.Set("message", message)

	req, err := http.NewRequest("POST", smsGatewayURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apiKey", smsAPIKey)
	req.Header.Set("Accept", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send SMS: status code %d", resp.StatusCode)
	}

	log.Printf("Successfully sent SMS to recipients")
	return nil
}

func SendPasswordResetSMS(phone, otp string) error {
	msg := fmt.Sprintf("Your XcelRent password reset code is %s. It expires in 15 minutes.", otp)
	return sendSMS(msg, []string{phone})
}

func SendBookingStatusSMS(phone, carModel, status string) error {
	msg := fmt.Sprintf("XcelRent: your booking for %s is now %s.", carModel, status)
	return sendSMS(msg, []string{phone})
}
