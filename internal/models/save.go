package models

// SaveFile is the persisted form of a game. Timestamp is RFC 3339.
type SaveFile struct {
	Version   int        `json:"version"`
	Timestamp string     `json:"timestamp"`
	State     *GameState `json:"state"`
}

// SaveSummary is an entry of the save index.
type SaveSummary struct {
	ID               string `json:"id"               db:"id"`
	Timestamp        string `json:"timestamp"        db:"timestamp"`
	CaseName         string `json:"caseName"         db:"case_name"`
	InvestigatorName string `json:"investigatorName" db:"investigator_name"`
}
