package discovery

// ScanResults is the terminal snapshot of a single non-watch Run: every
// device the Correlator holds once PHASE3 never starts, paired with the
// same stats carried on EventScanCompleted.
type ScanResults struct {
	Records []*DeviceRecord
	Stats   *ScanStats
}
