package email

import (
	"context"
	"errors"
	"testing"

	"github.com/resend/resend-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"onboarding-portal/internal/config"
	"onboarding-portal/internal/domain"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resend.SendEmailResponse), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		FromEmail:     "onboarding@example.com",
		AppBaseURL:    "https://portal.example.com",
		DefaultLocale: "en",
	}
}

func TestSendDocumentRejectedEmail(t *testing.T) {
	sender := new(mockSender)
	svc, err := NewServiceWithSender(testConfig(), sender, nil)
	require.NoError(t, err)

	var sent *resend.SendEmailRequest
	sender.On("SendWithContext", mock.Anything, mock.AnythingOfType("*resend.SendEmailRequest")).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*resend.SendEmailRequest) }).
		Return(&resend.SendEmailResponse{Id: "email-1"}, nil)

	err = svc.SendDocumentRejectedEmail(context.Background(), "asha@example.com", "Asha", domain.DocAadharCard, "blurry <photo>")

	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, []string{"asha@example.com"}, sent.To)
	assert.Equal(t, "Onboarding Portal <onboarding@example.com>", sent.From)
	assert.Equal(t, "Action needed: your Aadhar Card was rejected", sent.Subject)
	assert.Contains(t, sent.Html, "Hi Asha,")
	assert.Contains(t, sent.Html, "blurry &lt;photo&gt;")
	assert.Contains(t, sent.Html, "https://portal.example.com/documents?reupload=AADHAR_CARD")
	sender.AssertExpectations(t)
}

func TestSendDocumentUploadedEmailLinksToReviewQueue(t *testing.T) {
	sender := new(mockSender)
	svc, err := NewServiceWithSender(testConfig(), sender, nil)
	require.NoError(t, err)

	sender.On("SendWithContext", mock.Anything, mock.MatchedBy(func(req *resend.SendEmailRequest) bool {
		return req.Subject == "Ravi uploaded a PAN Card" &&
			assert.ObjectsAreEqual([]string{"admin@example.com"}, req.To)
	})).Return(&resend.SendEmailResponse{Id: "email-2"}, nil)

	err = svc.SendDocumentUploadedEmail(context.Background(), "admin@example.com", "Admin", "Ravi", domain.DocPANCard)

	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestSendEmailPropagatesProviderError(t *testing.T) {
	sender := new(mockSender)
	svc, err := NewServiceWithSender(testConfig(), sender, nil)
	require.NoError(t, err)

	sender.On("SendWithContext", mock.Anything, mock.Anything).Return(nil, errors.New("rate limited"))

	err = svc.SendDocumentApprovedEmail(context.Background(), "asha@example.com", "Asha", domain.DocOfferLetter)

	assert.ErrorContains(t, err, "rate limited")
}

func TestSendEmailWithoutSenderIsNoop(t *testing.T) {
	svc, err := NewServiceWithSender(testConfig(), nil, nil)
	require.NoError(t, err)

	assert.NoError(t, svc.SendDocumentApprovedEmail(context.Background(), "asha@example.com", "Asha", domain.DocPANCard))
}
