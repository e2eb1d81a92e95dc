package dto

// StatusResponse is the payload of the batch status endpoint.
type StatusResponse struct {
	Success        bool   `json:"success"`
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
