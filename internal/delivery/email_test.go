package delivery

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/sells-group/trip-claim/internal/config"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func TestBuildMsg(t *testing.T) {
	t.Parallel()

	attachment := filepath.Join(t.TempDir(), "2025-08.zip")
	writeFile(t, attachment, "zip")

	m, err := buildMsg(Message{
		From:        "me@example.com",
		To:          []string{"finance@example.com", "boss@example.com"},
		Subject:     "Trip claim 2025-08",
		Body:        "see attached",
		Attachments: []string{attachment},
	})
	require.NoError(t, err)

	rcpts, err := m.GetRecipients()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"finance@example.com", "boss@example.com"}, rcpts)
	assert.Equal(t, []string{"Trip claim 2025-08"}, m.GetGenHeader(mail.HeaderSubject))
	assert.Len(t, m.GetAttachments(), 1)
}

func TestBuildMsg_Errors(t *testing.T) {
	t.Parallel()

	_, err := buildMsg(Message{From: "me@example.com"})
	assert.ErrorContains(t, err, "no recipients")

	_, err = buildMsg(Message{From: "not an address", To: []string{"a@example.com"}})
	assert.Error(t, err)
}

func TestSMTPSender_ClientOptions(t *testing.T) {
	t.Parallel()

	plain := NewSMTPSender(config.EmailConfig{SMTPHost: "smtp.example.com", SMTPPort: 587})
	assert.Len(t, plain.clientOptions(), 2)

	authed := NewSMTPSender(config.EmailConfig{
		SMTPHost:     "smtp.example.com",
		SMTPPort:     465,
		SMTPSSL:      true,
		SMTPUsername: "me",
		SMTPPassword: "secret",
	})
	assert.Len(t, authed.clientOptions(), 6)
}
