package track

import (
	"context"
	"testing"

	"github.com/voxgate/voxgate/internal/message"
)

func TestJournalRoundTrip(t *testing.T) {
	j, err := OpenMemoryJournal()
	if err != nil {
		t.Fatalf("OpenMemoryJournal: %v", err)
	}
	defer j.Close()

	ctx := context.Background()
	in := testInput()
	if err := j.TrackInput(ctx, in); err != nil {
		t.Fatalf("TrackInput: %v", err)
	}

	out := in.Reply()
	out.Replies = append(out.Replies, message.TextReply{Text: "Hi"})
	if err := j.TrackOutput(ctx, out); err != nil {
		t.Fatalf("TrackOutput: %v", err)
	}

	for direction, want := range map[string]int{"in": 1, "out": 1} {
		got, err := j.Count(ctx, direction)
		if err != nil {
			t.Fatalf("Count(%s): %v", direction, err)
		}
		if got != want {
			t.Errorf("Count(%s) = %d, want %d", direction, got, want)
		}
	}
}

func TestJournalAsFanoutProvider(t *testing.T) {
	j, err := OpenMemoryJournal()
	if err != nil {
		t.Fatalf("OpenMemoryJournal: %v", err)
	}
	defer j.Close()

	f := NewFanout([]Provider{j})
	f.Input(testInput())
	f.Wait()

	n, err := j.Count(context.Background(), "in")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("journal rows = %d, want 1", n)
	}
}
