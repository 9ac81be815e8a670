package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

var testAlert = models.Alert{Kind: models.AlertKindRain, DeviceID: "dev-1", Title: "Rain detected"}

func TestDispatcher_AllRecipientsReceive(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, nil)

	report := d.Dispatch(context.Background(), testAlert, []string{"1", "2", "3"})
	if report.Success != 3 || report.Failure != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.Results) != 3 {
		t.Fatalf("expected a result per recipient, got %d", len(report.Results))
	}

	sort.Strings(sender.sent)
	if len(sender.sent) != 3 || sender.sent[0] != "1" || sender.sent[2] != "3" {
		t.Fatalf("unexpected deliveries: %v", sender.sent)
	}
}

func TestDispatcher_PartialFailureIsRecordedNotFatal(t *testing.T) {
	sender := &fakeSender{errFor: map[string]error{"2": errors.New("token expired")}}
	d := NewDispatcher(sender, nil)

	report := d.Dispatch(context.Background(), testAlert, []string{"1", "2", "3"})
	if report.Success != 2 || report.Failure != 1 {
		t.Fatalf("unexpected counts: %+v", report)
	}

	var failed []string
	for _, r := range report.Results {
		if r.Err != nil {
			failed = append(failed, r.Recipient)
		}
	}
	if len(failed) != 1 || failed[0] != "2" {
		t.Fatalf("wrong failed recipient: %v", failed)
	}
}

func TestDispatcher_NoSenderOrRecipients(t *testing.T) {
	d := NewDispatcher(nil, nil)
	report := d.Dispatch(context.Background(), testAlert, []string{"1"})
	if report.Success != 0 || report.Failure != 0 || len(report.Results) != 1 {
		t.Fatalf("nil sender should no-op: %+v", report)
	}

	d = NewDispatcher(&fakeSender{}, nil)
	report = d.Dispatch(context.Background(), testAlert, nil)
	if report.Success != 0 || report.Failure != 0 || len(report.Results) != 0 {
		t.Fatalf("empty recipient list should no-op: %+v", report)
	}
}
