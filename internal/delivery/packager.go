// Package delivery packages a finished month folder and optionally emails
// it.
package delivery

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-claim/internal/config"
	"github.com/sells-group/trip-claim/internal/model"
)

// Delivery reports what Deliver produced. EmailErr is set when the email
// could not be sent; the ZIP is kept in that case.
type Delivery struct {
	ZipPath  string
	Entries  []string
	Emailed  bool
	EmailErr error
}

// Packager zips the output folder and sends it by email.
type Packager struct {
	zip    bool
	email  config.EmailConfig
	sender EmailSender
}

// NewPackager creates a Packager. sender may be nil only when email is
// disabled.
func NewPackager(zip bool, email config.EmailConfig, sender EmailSender) (*Packager, error) {
	if email.Enabled && sender == nil {
		return nil, eris.Wrap(model.ErrEmailSenderMissing, "email.enabled is true")
	}
	return &Packager{zip: zip, email: email, sender: sender}, nil
}

// Deliver archives folder next to itself as <folder>.zip and emails the
// result. Email failures are logged and returned in Delivery.EmailErr
// wrapping model.ErrEmailDeliveryFailed; only archive failures are
// returned as errors.
func (p *Packager) Deliver(ctx context.Context, folder string, s Summary) (Delivery, error) {
	var d Delivery
	log := zap.L().With(zap.String("month_year", s.MonthYear))

	if p.zip {
		zipPath := filepath.Clean(folder) + ".zip"
		entries, err := ZipDir(folder, zipPath)
		if err != nil {
			return d, err
		}
		if err := verifyArchive(zipPath, entries); err != nil {
			return d, err
		}
		d.ZipPath = zipPath
		d.Entries = entries
		log.Info("packaged output", zap.String("path", zipPath), zap.Int("files", len(entries)))
	}

	if !p.email.Enabled {
		return d, nil
	}

	attachments, err := p.attachments(folder, d.ZipPath)
	if err != nil {
		d.EmailErr = eris.Wrapf(model.ErrEmailDeliveryFailed, "collect attachments: %v", err)
		log.Warn("email not sent", zap.Error(d.EmailErr))
		return d, nil
	}

	msg := Message{
		From:        p.email.Sender,
		To:          p.email.Recipients(),
		Subject:     RenderTemplate(p.email.Subject, s),
		Body:        RenderTemplate(p.email.Body, s),
		Attachments: attachments,
	}
	if err := p.sender.Send(ctx, msg); err != nil {
		d.EmailErr = eris.Wrapf(model.ErrEmailDeliveryFailed, "%v", err)
		log.Warn("email not sent", zap.Error(d.EmailErr))
		return d, nil
	}

	d.Emailed = true
	log.Info("emailed output", zap.Strings("to", msg.To), zap.Int("attachments", len(attachments)))
	return d, nil
}

// attachments is the ZIP when there is one, otherwise the files directly
// inside folder.
func (p *Packager) attachments(folder, zipPath string) ([]string, error) {
	if zipPath != "" {
		return []string{zipPath}, nil
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			out = append(out, filepath.Join(folder, e.Name()))
		}
	}
	return out, nil
}

// verifyArchive reads zipPath back and checks it holds exactly the written
// entries.
func verifyArchive(zipPath string, written []string) error {
	listed, err := ZipEntries(zipPath)
	if err != nil {
		return err
	}
	if !slices.Equal(listed, written) {
		return eris.Errorf("zip: %s lists %d entries, wrote %d", zipPath, len(listed), len(written))
	}
	return nil
}
