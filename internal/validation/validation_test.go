package validation

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestValidateStructAndErrorsToJson(t *testing.T) {
	type Input struct {
		MediaID        string `validate:"required"      json:"media_id"`
		MessageID      string `validate:"required,uuid" json:"message_id"`
		ConversationID string `validate:"required"      json:"conversation_id"`
	}

	tests := []struct {
		name        string
		in          Input
		wantErr     bool
		wantJsonMap map[string]string
	}{
		{
			name: "success",
			in: Input{
				MediaID:        "wamid.HBgM",
				MessageID:      "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee",
				ConversationID: "conv-1",
			},
			wantErr: false,
		},
		{
			name:    "missing media id",
			in:      Input{MessageID: "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", ConversationID: "conv-1"},
			wantErr: true,
			wantJsonMap: map[string]string{
				"media_id": "required",
			},
		},
		{
			name:    "message id not a uuid, missing conversation",
			in:      Input{MediaID: "wamid.HBgM", MessageID: "not-a-uuid"},
			wantErr: true,
			wantJsonMap: map[string]string{
				"message_id":      "uuid",
				"conversation_id": "required",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}

			// convert and unmarshal for comparison
			js, jerr := ErrorsToJson(err)
			if jerr != nil {
				t.Fatalf("ErrorsToJson() error = %v", jerr)
			}
			var got map[string]string
			if err := json.Unmarshal([]byte(js), &got); err != nil {
				t.Fatalf("could not unmarshal errors JSON: %v", err)
			}
			if !reflect.DeepEqual(got, tt.wantJsonMap) {
				t.Errorf("errors map = %v, want %v", got, tt.wantJsonMap)
			}
		})
	}
}
