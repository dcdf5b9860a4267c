package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/couchcryptid/flood-response-service/internal/domain"
	"github.com/couchcryptid/flood-response-service/internal/report"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// ErrUnknownFormat is returned by Export for formats other than csv, xlsx and pdf.
var ErrUnknownFormat = errors.New("unknown export format")

// Export is a rendered report ready for download.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Export renders the current store in the given format. CSV follows the
// configured escaping mode.
func (s *AlertService) Export(format string) (Export, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	alerts := s.Alerts()
	now := s.clock.Now()

	var (
		data        []byte
		contentType string
		err         error
	)
	switch format {
	case FormatCSV:
		data = []byte(domain.Format(alerts, s.escaping))
		contentType = "text/csv; charset=utf-8"
	case FormatXLSX:
		data, err = report.BuildXLSX(alerts, now)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		data, err = report.BuildPDF(alerts, now)
		contentType = "application/pdf"
	default:
		return Export{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return Export{}, fmt.Errorf("render %s report: %w", format, err)
	}

	s.metrics.Exports.WithLabelValues(format).Inc()
	s.logger.Info("report exported", "format", format, "alerts", len(alerts), "bytes", len(data))
	return Export{
		Filename:    domain.ExportFilename(now, format),
		ContentType: contentType,
		Data:        data,
	}, nil
}
