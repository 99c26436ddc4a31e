package epost

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

// progressServer reports the given stages, one per query, then repeats the last.
func progressServer(t *testing.T, stages ...int) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		if n >= len(stages) {
			n = len(stages) - 1
		}
		body := fmt.Sprintf(`{"letterID":"w-1","statusID":%d}`, stages[n])
		if stages[n] == 99 {
			body = `{"letterID":"w-1","statusID":99,"errorList":[{"level":"Error","code":"E9","description":"unreadable"}]}`
		}
		w.Write([]byte(body))
	})
	return client, &calls
}

func waitingLetter(client *Client) *Letter {
	return client.NewLetter().
		SetAccessToken(NewAccessToken("bearer-1")).
		SetLetterID("w-1")
}

var fastPoll = WithPollInterval(time.Millisecond, 5*time.Millisecond)

func TestWaitForStatus_Default(t *testing.T) {
	t.Parallel()
	client, calls := progressServer(t, 1, 2, 3, 4)

	status, err := waitingLetter(client).WaitForStatus(context.Background(), fastPoll)
	if err != nil {
		t.Fatalf("WaitForStatus() error = %v", err)
	}
	if status.StatusID != StatusProcessingInPrintingCenter {
		t.Errorf("StatusID = %s, want ProcessingInPrintingCenter", status.StatusID)
	}
	if n := calls.Load(); n != 4 {
		t.Errorf("queries = %d, want 4", n)
	}
}

func TestWaitForStatus_StopsOnError(t *testing.T) {
	t.Parallel()
	client, _ := progressServer(t, 1, 99)

	status, err := waitingLetter(client).WaitForStatus(context.Background(), fastPoll)
	if err != nil {
		t.Fatalf("WaitForStatus() error = %v", err)
	}
	if !status.IsFinalError() || status.Errors[0].Code != "E9" {
		t.Errorf("status = %+v, want processing error", status)
	}
}

func TestWaitForStatus_WithStatus(t *testing.T) {
	t.Parallel()
	client, calls := progressServer(t, 1, 2, 3, 4)

	status, err := waitingLetter(client).WaitForStatus(context.Background(),
		fastPoll, WithStatus(StatusProcessingTheShipment))
	if err != nil {
		t.Fatalf("WaitForStatus() error = %v", err)
	}
	if status.StatusID != StatusProcessingTheShipment || calls.Load() != 2 {
		t.Errorf("status = %s after %d queries", status.StatusID, calls.Load())
	}
}

func TestWaitForStatus_WithCondition(t *testing.T) {
	t.Parallel()
	client, _ := progressServer(t, 1, 3)

	status, err := waitingLetter(client).WaitForStatus(context.Background(),
		fastPoll, WithCondition(func(s *LetterStatus) bool { return s.StatusID == StatusDeliveryToPrintingCenter }))
	if err != nil {
		t.Fatalf("WaitForStatus() error = %v", err)
	}
	if status.StatusID != StatusDeliveryToPrintingCenter {
		t.Errorf("StatusID = %s", status.StatusID)
	}
}

func TestWaitForStatus_Timeout(t *testing.T) {
	t.Parallel()
	client, _ := progressServer(t, 1)

	status, err := waitingLetter(client).WaitForStatus(context.Background(),
		fastPoll, WithWaitTimeout(30*time.Millisecond))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("WaitForStatus() error = %v, want DeadlineExceeded", err)
	}
	if status == nil || status.StatusID != StatusAcceptanceOfShipment {
		t.Errorf("last status = %+v", status)
	}
}

func TestWaitForStatus_NoLetterID(t *testing.T) {
	t.Parallel()
	client, calls := progressServer(t, 1)

	letter := client.NewLetter().SetAccessToken(NewAccessToken("bearer-1"))
	if _, err := letter.WaitForStatus(context.Background()); !errors.Is(err, ErrMissingLetterID) {
		t.Errorf("WaitForStatus() error = %v, want ErrMissingLetterID", err)
	}
	if calls.Load() != 0 {
		t.Error("queried without a letter id")
	}
}
