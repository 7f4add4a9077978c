package mailer

import (
	"context"
	"fmt"
)

const (
	OTPSubject = "Password Verification OTP"
	otpBody    = "Your OTP for verification is: %s"
)

// OTPSender formats verification codes as email. It satisfies otp.Sender.
type OTPSender struct {
	mail Mail
	from string
}

func NewOTPSender(mail Mail, from string) *OTPSender {
	return &OTPSender{mail: mail, from: from}
}

func (s *OTPSender) Send(ctx context.Context, to, code string) error {
	return s.mail.Send(ctx, Message{
		From:     s.from,
		To:       []string{to},
		Subject:  OTPSubject,
		TextBody: fmt.Sprintf(otpBody, code),
	})
}
