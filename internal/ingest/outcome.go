package ingest

// Status is the result of processing one row.
type Status string

const (
	StatusInserted Status = "inserted"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

type RowOutcome struct {
	Row       int    `json:"row"`
	Reference string `json:"reference,omitempty"`
	Status    Status `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

func inserted(row int, reference string) RowOutcome {
	return RowOutcome{Row: row, Reference: reference, Status: StatusInserted}
}

func skipped(row int, reason string) RowOutcome {
	return RowOutcome{Row: row, Status: StatusSkipped, Reason: reason}
}

func failed(row int, reference string, err error) RowOutcome {
	return RowOutcome{Row: row, Reference: reference, Status: StatusFailed, Reason: err.Error()}
}

// Summary describes one ingestion run.
type Summary struct {
	RunID          string       `json:"run_id"`
	File           string       `json:"file"`
	RowsTotal      int          `json:"rows_total"`
	RowsProcessed  int          `json:"rows_processed"`
	RowsSkipped    int          `json:"rows_skipped"`
	RowsFailed     int          `json:"rows_failed"`
	MissingColumns []string     `json:"missing_columns"`
	Outcomes       []RowOutcome `json:"-"`
}

func (s *Summary) record(o RowOutcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Status {
	case StatusInserted:
		s.RowsProcessed++
	case StatusSkipped:
		s.RowsSkipped++
	case StatusFailed:
		s.RowsFailed++
	}
}

// Failures returns the failed outcomes in row order.
func (s *Summary) Failures() []RowOutcome {
	out := []RowOutcome{}
	for _, o := range s.Outcomes {
		if o.Status == StatusFailed {
			out = append(out, o)
		}
	}
	return out
}
