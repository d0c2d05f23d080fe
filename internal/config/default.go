package config

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

const defaultHeader = `# trip-claim configuration.
#
# home_address_keywords / work_address_keywords: fragments of the pickup
# address. A pickup containing any home keyword is a return-from-work trip,
# otherwise one containing any work keyword is a going-to-work trip. Matching
# ignores case. Home keywords are checked first.
#
# email: optional delivery of the zipped month. subject and body accept
# {month_year}, {total_amount} and {trip_count}.
#
# Every key can also be set through the environment, e.g.
# TRIPCLAIM_EMAIL_SMTP_PASSWORD.
`

type defaultFile struct {
	HomeKeywords []string    `yaml:"home_address_keywords"`
	WorkKeywords []string    `yaml:"work_address_keywords"`
	Email        EmailConfig `yaml:"email"`
	Paths        PathsConfig `yaml:"paths"`
	Report       struct {
		PaymentMethod string       `yaml:"payment_method"`
		CoverPage     bool         `yaml:"cover_page"`
		Labels        LabelsConfig `yaml:"labels"`
	} `yaml:"report"`
	Log LogConfig `yaml:"log"`
}

func newDefaultFile() defaultFile {
	var f defaultFile
	f.HomeKeywords = []string{"New Cairo"}
	f.WorkKeywords = []string{"Al Tabeer"}
	f.Email = EmailConfig{
		Enabled:   false,
		Recipient: "claims@example.com",
		Sender:    "me@example.com",
		SMTPHost:  "smtp.example.com",
		SMTPPort:  587,
		Subject:   "Trip claim {month_year}",
		Body:      "Attached are {trip_count} trips for {month_year}, total {total_amount}.",
	}
	f.Paths = PathsConfig{
		TokenFile: "token.txt",
		Template:  "Private Taxi Claim Form.xlsx",
		OutputDir: "output",
	}
	f.Report.PaymentMethod = "App Wallet"
	f.Report.Labels = LabelsConfig{
		ReturnFromWork: "Return from work",
		GoingToWork:    "Going to work",
	}
	f.Log = LogConfig{Level: "info", Format: "console"}
	return f
}

// WriteDefault writes the documented default configuration to path. It
// refuses to overwrite an existing file.
func WriteDefault(path string) error {
	out, err := yaml.Marshal(newDefaultFile())
	if err != nil {
		return eris.Wrap(err, "config: marshal default")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "config: create directory")
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return eris.Wrap(err, "config: create default file")
	}
	defer f.Close() //nolint:errcheck

	if _, err := f.WriteString(defaultHeader + "\n" + string(out)); err != nil {
		return eris.Wrap(err, "config: write default file")
	}
	return nil
}
