package report

import (
	"os"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

func TestMain(m *testing.M) {
	disablePDFConfigDir.Do(api.DisableConfigDir)
	os.Exit(m.Run())
}
