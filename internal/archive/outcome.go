package archive

// Status classifies one batch item.
type Status string

const (
	StatusSuccess  Status = "SUCCESS"
	StatusNotFound Status = "NOT_FOUND"
	StatusError    Status = "ERROR"
)

// Outcome reports the result of one request within a batch. On success
// FileName holds the archive entry name and Reason is nil; otherwise
// FileName is nil and Reason describes the failure.
type Outcome struct {
	Username string  `json:"username"`
	Date     string  `json:"date"`
	FileName *string `json:"fileName"`
	Status   Status  `json:"status"`
	Reason   *string `json:"reason"`
}

// Summary is the status.json manifest written as the last archive entry.
// Records are in request order.
type Summary struct {
	TotalRequests int       `json:"totalRequests"`
	Success       int       `json:"success"`
	Failure       int       `json:"failure"`
	Records       []Outcome `json:"records"`
}

func (s *Summary) add(o Outcome) {
	s.Records = append(s.Records, o)
	if o.Status == StatusSuccess {
		s.Success++
	} else {
		s.Failure++
	}
}

// Result is the product of a batch. Archive is nil when no request
// succeeded.
type Result struct {
	Archive []byte
	Summary Summary
}

// HasContent reports whether the batch produced an archive.
func (r Result) HasContent() bool {
	return len(r.Archive) > 0
}
