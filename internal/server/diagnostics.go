package server

import (
	"context"
	"fmt"
	"net/http"
	"unicode/utf8"

	"college_api/internal/logger"
)

const (
	maxDiagnosticCollections = 10
	maxDiagnosticErrorLen    = 50
)

// Diagnostics — ответ /test о доступности базы данных.
type Diagnostics struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// TestDatabase проверяет доступность базы данных. Всегда отвечает 200:
// ошибки попадают в поля ответа, а не в HTTP-статус.
func (s *Server) TestDatabase(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, s.diagnose(r.Context()))
}

func (s *Server) diagnose(ctx context.Context) (d Diagnostics) {
	d = Diagnostics{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Log.WithField("panic", rec).Error("Database diagnostics panicked")
			d.Database = "❌ Error: " + truncate(fmt.Sprint(rec), maxDiagnosticErrorLen)
			d.ConnectionStatus = "Not Connected"
			d.Collections = []string{}
		}
		d.DatabaseURL = setOrNot(s.cfg.DatabaseURL)
		d.DatabaseName = setOrNot(s.cfg.DatabaseName)
	}()

	if s.store == nil {
		d.Database = "⚠️  Available but not initialized"
		return d
	}

	d.Database = "✅ Available"
	d.ConnectionStatus = "Connected"

	names, err := s.store.CollectionNames(ctx)
	if err != nil {
		logger.Log.WithError(err).Warn("Database diagnostics failed")
		d.Database = "⚠️  Connected but Error: " + truncate(err.Error(), maxDiagnosticErrorLen)
		d.ConnectionStatus = "Error"
		return d
	}

	if len(names) > maxDiagnosticCollections {
		names = names[:maxDiagnosticCollections]
	}
	if names != nil {
		d.Collections = names
	}
	d.Database = "✅ Connected & Working"
	return d
}

func setOrNot(v string) string {
	if v != "" {
		return "✅ Set"
	}
	return "❌ Not Set"
}

// truncate обрезает s до n символов, не разрывая руны.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
