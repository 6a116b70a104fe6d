package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/palatelog/palatelog-backend/internal/data/repos/testutil"
)

type statusErr int

func (e statusErr) Error() string       { return fmt.Sprintf("server returned %d", int(e)) }
func (e statusErr) HTTPStatusCode() int { return int(e) }

// scriptedClient returns the scripted errors one call at a time, then nil
// for every call past the end of the script.
type scriptedClient struct {
	script  []error
	calls   int
	batches [][]RemoteRestaurant
}

func (c *scriptedClient) UploadBatch(ctx context.Context, batch []RemoteRestaurant) error {
	copied := make([]RemoteRestaurant, len(batch))
	copy(copied, batch)
	c.batches = append(c.batches, copied)
	var err error
	if c.calls < len(c.script) {
		err = c.script[c.calls]
	}
	c.calls++
	return err
}

func newTestUploader(t *testing.T, client UploadClient) (*BatchUploader, *[]time.Duration) {
	t.Helper()
	u := NewBatchUploader(client, testutil.Logger(t))
	var slept []time.Duration
	u.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return u, &slept
}

func makeRestaurants(n int) []RemoteRestaurant {
	out := make([]RemoteRestaurant, n)
	for i := range out {
		out[i] = RemoteRestaurant{Name: fmt.Sprintf("Restaurant %02d", i)}
	}
	return out
}

func TestUploadPartitionsSequentially(t *testing.T) {
	client := &scriptedClient{}
	u, _ := newTestUploader(t, client)

	result := u.Upload(context.Background(), makeRestaurants(32))
	if result.SuccessCount != 32 || result.FailedCount != 0 {
		t.Fatalf("expected 32 uploaded, got success=%d failed=%d", result.SuccessCount, result.FailedCount)
	}

	wantSizes := []int{15, 15, 2}
	if len(client.batches) != len(wantSizes) {
		t.Fatalf("expected %d batches, got %d", len(wantSizes), len(client.batches))
	}
	for i, want := range wantSizes {
		if len(client.batches[i]) != want {
			t.Errorf("batch %d size = %d, want %d", i, len(client.batches[i]), want)
		}
	}
	if client.batches[0][0].Name != "Restaurant 00" {
		t.Errorf("first batch out of order: %q", client.batches[0][0].Name)
	}
	if client.batches[2][1].Name != "Restaurant 31" {
		t.Errorf("last batch out of order: %q", client.batches[2][1].Name)
	}
}

func TestUploadRetriesServerErrorsWithBackoff(t *testing.T) {
	client := &scriptedClient{script: []error{statusErr(503), statusErr(503), statusErr(503)}}
	u, slept := newTestUploader(t, client)

	result := u.Upload(context.Background(), makeRestaurants(5))
	if result.SuccessCount != 0 || result.FailedCount != 5 {
		t.Fatalf("expected full failure, got success=%d failed=%d", result.SuccessCount, result.FailedCount)
	}
	if client.calls != 3 {
		t.Fatalf("expected 3 attempts (1 + 2 retries), got %d", client.calls)
	}
	wantSleeps := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(*slept) != len(wantSleeps) {
		t.Fatalf("expected %d backoffs, got %v", len(wantSleeps), *slept)
	}
	for i, want := range wantSleeps {
		if (*slept)[i] != want {
			t.Errorf("backoff %d = %v, want %v", i, (*slept)[i], want)
		}
	}
}

func TestUploadServerErrorThenSuccess(t *testing.T) {
	client := &scriptedClient{script: []error{statusErr(500)}}
	u, slept := newTestUploader(t, client)

	result := u.Upload(context.Background(), makeRestaurants(3))
	if result.SuccessCount != 3 {
		t.Fatalf("expected recovery on retry, got %+v", result)
	}
	if client.calls != 2 {
		t.Errorf("expected 2 attempts, got %d", client.calls)
	}
	if len(*slept) != 1 || (*slept)[0] != 2*time.Second {
		t.Errorf("expected one 2s backoff, got %v", *slept)
	}
}

func TestUploadDoesNotRetryClientErrors(t *testing.T) {
	client := &scriptedClient{script: []error{statusErr(400), statusErr(400), statusErr(400)}}
	u, slept := newTestUploader(t, client)

	result := u.Upload(context.Background(), makeRestaurants(2))
	if result.FailedCount != 2 {
		t.Fatalf("expected batch failure, got %+v", result)
	}
	if client.calls != 1 {
		t.Errorf("client errors must not be retried, got %d attempts", client.calls)
	}
	if len(*slept) != 0 {
		t.Errorf("no backoff expected, got %v", *slept)
	}
}

func TestUploadRetriesNetworkErrors(t *testing.T) {
	netErr := errors.New("NetworkError when attempting to fetch resource")
	client := &scriptedClient{script: []error{netErr}}
	u, slept := newTestUploader(t, client)

	result := u.Upload(context.Background(), makeRestaurants(1))
	if result.SuccessCount != 1 {
		t.Fatalf("expected recovery after network error, got %+v", result)
	}
	if len(*slept) != 1 || (*slept)[0] != 3*time.Second {
		t.Errorf("network errors back off from 3s, got %v", *slept)
	}
}

func TestUploadContinuesAfterFailedBatch(t *testing.T) {
	// First batch fails terminally; the remaining batches still run.
	client := &scriptedClient{script: []error{statusErr(400)}}
	u, _ := newTestUploader(t, client)

	result := u.Upload(context.Background(), makeRestaurants(32))
	if result.FailedCount != 15 {
		t.Errorf("expected first batch (15) to fail, got %d", result.FailedCount)
	}
	if result.SuccessCount != 17 {
		t.Errorf("expected remaining 17 to upload, got %d", result.SuccessCount)
	}
	if len(result.Batches) != 3 {
		t.Errorf("expected all 3 batches attempted, got %d", len(result.Batches))
	}
}
