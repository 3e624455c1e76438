package task

import (
	"testing"

	"github.com/hibiken/asynq"
)

func TestMaterializeMediaTaskRoundTrip(t *testing.T) {
	tk, err := NewMaterializeMediaTask("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", "m-1", "conv-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tk.Type() != TypeMaterializeMedia {
		t.Errorf("task type %q; want %q", tk.Type(), TypeMaterializeMedia)
	}

	p, err := ParseMaterializeMediaPayload(tk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MessageID != "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee" || p.MediaID != "m-1" || p.ConversationID != "conv-1" {
		t.Errorf("payload %+v does not round-trip", p)
	}
}

func TestParseMaterializeMediaPayload_Invalid(t *testing.T) {
	tk := asynq.NewTask(TypeMaterializeMedia, []byte("{not json"))
	if _, err := ParseMaterializeMediaPayload(tk); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
