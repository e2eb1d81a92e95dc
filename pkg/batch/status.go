package batch

import "sync"

// Status is a snapshot of the progress of the current batch run, exposed
// through the status endpoint.
type Status struct {
	RunID          string `json:"runId"`
	RootDir        string `json:"rootDir"`
	ProfileName    string `json:"profileName"`
	TotalSubjects  int    `json:"totalSubjects"`
	CurrentSubject string `json:"currentSubject"`
	CurrentModel   string `json:"currentModel"`
	CompletedFits  int    `json:"completedFits"`
	FailedFits     int    `json:"failedFits"`
	Running        bool   `json:"running"`
}

var (
	statusMu sync.RWMutex
	status   Status
)

// GetStatus returns a copy of the current batch run status.
func GetStatus() Status {
	statusMu.RLock()
	defer statusMu.RUnlock()
	return status
}

func updateStatus(update func(s *Status)) {
	statusMu.Lock()
	defer statusMu.Unlock()
	update(&status)
}
