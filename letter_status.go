package epost

import (
	"context"
	"fmt"
	"time"

	"github.com/Quosimadu/epost-api/internal/api"
)

// StatusID is the processing stage reported for a letter.
type StatusID int

// Processing stages.
const (
	StatusAcceptanceOfShipment       StatusID = 1
	StatusProcessingTheShipment      StatusID = 2
	StatusDeliveryToPrintingCenter   StatusID = 3
	StatusProcessingInPrintingCenter StatusID = 4
	StatusProcessingError            StatusID = 99
)

func (s StatusID) String() string {
	switch s {
	case StatusAcceptanceOfShipment:
		return "AcceptanceOfShipment"
	case StatusProcessingTheShipment:
		return "ProcessingTheShipment"
	case StatusDeliveryToPrintingCenter:
		return "DeliveryToPrintingCenter"
	case StatusProcessingInPrintingCenter:
		return "ProcessingInPrintingCenter"
	case StatusProcessingError:
		return "ProcessingError"
	default:
		return fmt.Sprintf("StatusID(%d)", int(s))
	}
}

// DateLayout is the timestamp format of date range queries.
const DateLayout = "2006-01-02T15:04:05"

// LetterStatus is the processing state of a submitted letter.
type LetterStatus struct {
	LetterID LetterID
	StatusID StatusID
	Errors   []ErrorRecord
}

// HasErrors reports whether the API attached any messages.
func (s *LetterStatus) HasErrors() bool {
	return len(s.Errors) > 0
}

// IsFinalError reports whether processing stopped with an error.
func (s *LetterStatus) IsFinalError() bool {
	return s.StatusID == StatusProcessingError
}

// Status returns the status of the letter with the given id. An empty id
// queries the letter's own id; querying it moves the letter to
// LetterStatusKnown.
func (l *Letter) Status(ctx context.Context, id LetterID) (*LetterStatus, error) {
	if err := l.requireToken(); err != nil {
		return nil, err
	}

	own := false
	if id == "" {
		var err error
		if id, err = l.LetterID(); err != nil {
			return nil, err
		}
		own = true
	} else if len(l.letterIDs) > 0 && id == l.letterIDs[0] {
		own = true
	}

	rec, err := l.client.apiClient.GetLetterStatus(ctx, l.token.Token(), id)
	if err != nil {
		return nil, fmt.Errorf("get letter status: %w", err)
	}

	status := statusRecord(*rec)
	if status.LetterID == "" {
		status.LetterID = id
	}
	if own {
		l.state = LetterStatusKnown
	}
	return &status, nil
}

// Statuses returns the status of every given letter in one request. With
// onlyIssues the API omits letters without messages.
func (l *Letter) Statuses(ctx context.Context, ids []LetterID, onlyIssues bool) ([]LetterStatus, error) {
	if err := l.requireToken(); err != nil {
		return nil, err
	}

	recs, err := l.client.apiClient.QueryLetterStatuses(ctx, l.token.Token(), ids, onlyIssues)
	if err != nil {
		return nil, fmt.Errorf("query letter statuses: %w", err)
	}
	return statusRecords(recs), nil
}

// StatusesByDateRange returns the status of the letters submitted between
// from and till. Both bounds are sent in UTC.
func (l *Letter) StatusesByDateRange(ctx context.Context, from, till time.Time, onlyIssues bool) ([]LetterStatus, error) {
	if err := l.requireToken(); err != nil {
		return nil, err
	}
	if till.Before(from) {
		return nil, fmt.Errorf("date range: till %s is before from %s", till.Format(DateLayout), from.Format(DateLayout))
	}

	recs, err := l.client.apiClient.GetLetterStatusByDate(ctx, l.token.Token(),
		from.UTC().Format(DateLayout), till.UTC().Format(DateLayout), onlyIssues)
	if err != nil {
		return nil, fmt.Errorf("query letter statuses by date: %w", err)
	}
	return statusRecords(recs), nil
}

func statusRecords(recs []api.StatusRecord) []LetterStatus {
	out := make([]LetterStatus, 0, len(recs))
	for _, r := range recs {
		out = append(out, statusRecord(r))
	}
	return out
}
