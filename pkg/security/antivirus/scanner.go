// Package antivirus scans uploaded files before they are stored.
package antivirus

import (
	"context"
)

// ScanResult contains the result of a malware scan
type ScanResult struct {
	Infected    bool   // true if malware was detected
	ThreatName  string // empty if clean
	ScannerName string
	Error       error // scans that error are reported as infected
}

// Scanner is implemented by antivirus backends. Uploads are rejected when
// the result is infected; there is no quarantine.
type Scanner interface {
	Scan(ctx context.Context, filename string, data []byte) ScanResult
	Name() string
	Available(ctx context.Context) bool
}

// NoOpScanner reports every file as clean. Used when no scanner is configured.
type NoOpScanner struct{}

var _ Scanner = (*NoOpScanner)(nil)

func NewNoOpScanner() *NoOpScanner {
	return &NoOpScanner{}
}

func (n *NoOpScanner) Scan(context.Context, string, []byte) ScanResult {
	return ScanResult{ScannerName: n.Name()}
}

func (n *NoOpScanner) Name() string { return "noop" }

func (n *NoOpScanner) Available(context.Context) bool { return true }
