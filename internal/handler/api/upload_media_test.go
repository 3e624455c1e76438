package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/mock"
	"github.com/talkora/chat-media-go/internal/port"
	"github.com/talkora/chat-media-go/internal/usecase/media"
)

type uploadForm struct {
	conversationID string
	businessID     string
	filename       string
	contentType    string
	data           []byte
}

func buildUploadRequest(t *testing.T, form uploadForm) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if form.conversationID != "" {
		if err := w.WriteField("conversation_id", form.conversationID); err != nil {
			t.Fatalf("could not write conversation_id: %v", err)
		}
	}
	if form.businessID != "" {
		if err := w.WriteField("business_id", form.businessID); err != nil {
			t.Fatalf("could not write business_id: %v", err)
		}
	}
	if form.filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+form.filename+`"`)
		if form.contentType != "" {
			h.Set("Content-Type", form.contentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("could not create file part: %v", err)
		}
		if _, err := part.Write(form.data); err != nil {
			t.Fatalf("could not write file part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("could not close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/media/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadMediaHandler_Success(t *testing.T) {
	id := db.UUID(uuid.MustParse("11111111-2222-3333-4444-555555555555"))
	url := "https://cdn.example.com/k"
	svc := &mock.MediaUploader{Out: &port.UploadOutput{
		MessageID:       id,
		PersistentURL:   &url,
		ProviderMediaID: "provider-media-1",
		MimeType:        "audio/mpeg",
		SizeBytes:       11,
	}}

	req := buildUploadRequest(t, uploadForm{
		conversationID: "conv-1",
		businessID:     "biz-1",
		filename:       "voice.mp3",
		contentType:    "audio/mpeg",
		data:           []byte("hello media"),
	})
	rr := httptest.NewRecorder()

	UploadMediaHandler(svc)(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d; want 200 (body %q)", rr.Code, rr.Body.String())
	}
	if !svc.Called {
		t.Fatal("service was never called")
	}
	if svc.In.ConversationID != "conv-1" || svc.In.BusinessID != "biz-1" {
		t.Errorf("service input %+v does not carry the form identifiers", svc.In)
	}
	if svc.In.MimeType != "audio/mpeg" {
		t.Errorf("mime %q; want the part's declared type", svc.In.MimeType)
	}
	if svc.In.Filename != "voice.mp3" {
		t.Errorf("filename %q; want voice.mp3", svc.In.Filename)
	}
	if !bytes.Equal(svc.In.Data, []byte("hello media")) {
		t.Error("service did not receive the file bytes")
	}
	if !strings.Contains(rr.Body.String(), "provider-media-1") {
		t.Errorf("body %q should echo the provider media ID", rr.Body.String())
	}
}

func TestUploadMediaHandler_SniffsMimeWhenGeneric(t *testing.T) {
	svc := &mock.MediaUploader{Out: &port.UploadOutput{}}

	// %PDF- magic makes content sniffing land on application/pdf
	req := buildUploadRequest(t, uploadForm{
		conversationID: "conv-1",
		businessID:     "biz-1",
		filename:       "doc.pdf",
		contentType:    "application/octet-stream",
		data:           []byte("%PDF-1.4 fake body"),
	})
	rr := httptest.NewRecorder()

	UploadMediaHandler(svc)(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d; want 200 (body %q)", rr.Code, rr.Body.String())
	}
	if svc.In.MimeType != "application/pdf" {
		t.Errorf("mime %q; want the sniffed application/pdf", svc.In.MimeType)
	}
}

func TestUploadMediaHandler_MissingConversationID(t *testing.T) {
	svc := &mock.MediaUploader{}
	req := buildUploadRequest(t, uploadForm{
		businessID:  "biz-1",
		filename:    "voice.mp3",
		contentType: "audio/mpeg",
		data:        []byte("x"),
	})
	rr := httptest.NewRecorder()

	UploadMediaHandler(svc)(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d; want 400", rr.Code)
	}
	if svc.Called {
		t.Error("service should not be called without a conversation ID")
	}
}

func TestUploadMediaHandler_MissingFile(t *testing.T) {
	svc := &mock.MediaUploader{}
	req := buildUploadRequest(t, uploadForm{
		conversationID: "conv-1",
		businessID:     "biz-1",
	})
	rr := httptest.NewRecorder()

	UploadMediaHandler(svc)(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d; want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "file is required") {
		t.Errorf("body %q should name the missing file", rr.Body.String())
	}
}

func TestUploadMediaHandler_ValidationError(t *testing.T) {
	svc := &mock.MediaUploader{Err: media.ErrValidation}
	req := buildUploadRequest(t, uploadForm{
		conversationID: "conv-1",
		businessID:     "biz-1",
		filename:       "huge.mp4",
		contentType:    "video/mp4",
		data:           []byte("x"),
	})
	rr := httptest.NewRecorder()

	UploadMediaHandler(svc)(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d; want 400", rr.Code)
	}
}

func TestUploadMediaHandler_ProviderError(t *testing.T) {
	svc := &mock.MediaUploader{Err: media.ErrProviderUpload}
	req := buildUploadRequest(t, uploadForm{
		conversationID: "conv-1",
		businessID:     "biz-1",
		filename:       "voice.mp3",
		contentType:    "audio/mpeg",
		data:           []byte("x"),
	})
	rr := httptest.NewRecorder()

	UploadMediaHandler(svc)(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status %d; want 502", rr.Code)
	}
}
