// Package security wraps the SQL-side anomaly detection and the security
// event log. The detection algorithm itself lives in the database; this
// package only decides when to run it.
package security

import (
	"log"
	"time"

	"resolve/backend/internal/models"
	"resolve/backend/internal/storage"
)

// Monitor periodically invokes detect_suspicious_activity(). Admins can also
// trigger a run on demand through the API or the CLI.
type Monitor struct {
	Storage  storage.Storage
	Interval time.Duration
}

func NewMonitor(s storage.Storage, interval time.Duration) *Monitor {
	return &Monitor{Storage: s, Interval: interval}
}

// Run запускає основну Goroutine монітора.
func (m *Monitor) Run() {
	log.Println("Security monitor started.")

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := m.Storage.RunSuspiciousActivityDetection(); err != nil {
			log.Printf("ERROR: Suspicious activity detection failed: %v", err)
			continue
		}
		log.Println("Suspicious activity detection completed.")
	}
}

// LogEvent writes one security log row. Failures are logged and swallowed:
// audit writes must never break the request that triggered them.
func (m *Monitor) LogEvent(eventType, severity string, userID *string, ip, userAgent, endpoint string) {
	err := m.Storage.LogSecurityEvent(&models.SecurityLog{
		EventType: eventType,
		Severity:  severity,
		UserID:    userID,
		IPAddress: ip,
		UserAgent: userAgent,
		Endpoint:  endpoint,
	})
	if err != nil {
		log.Printf("ERROR: Failed to log security event %s: %v", eventType, err)
	}
}
