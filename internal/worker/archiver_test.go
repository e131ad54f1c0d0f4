package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/prepvoice/backend/pkg/queue"
)

func TestProcessRejectsUnknownJobType(t *testing.T) {
	p := NewReportArchiver(nil, nil, nil)

	err := p.Process(context.Background(), &queue.Job{ID: "j1", Type: "bogus"})
	if err == nil {
		t.Fatal("expected an error for an unknown job type")
	}
}

func TestProcessRejectsMalformedPayload(t *testing.T) {
	p := NewReportArchiver(nil, nil, nil)

	job := &queue.Job{
		ID:      "j2",
		Type:    queue.JobTypeReportArchive,
		Payload: json.RawMessage(`{not json`),
	}
	if err := p.Process(context.Background(), job); err == nil {
		t.Fatal("expected an error for a malformed payload")
	}
}
