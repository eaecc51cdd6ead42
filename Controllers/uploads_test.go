package Controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"strings"
	"testing"

	"github.com/Chidinma123456/AvaBuddie/Models"
	"github.com/Chidinma123456/AvaBuddie/Storage"

	"github.com/gin-gonic/gin"
)

// uploadImage posts a multipart image to UploadChatImage as the given profile.
func uploadImage(t *testing.T, ctrl *UploadController, as Models.Profile, sessionID uint, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("session_id", strconv.FormatUint(uint64(sessionID), 10)); err != nil {
		t.Fatalf("failed to write form field: %v", err)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create form part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write file bytes: %v", err)
	}
	writer.Close()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", &buf)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	c.Set("profile", as)

	ctrl.UploadChatImage(c)
	return w
}

func TestUploadChatImageLifecycle(t *testing.T) {
	setupTestDB(t)
	chat := newOfflineChatController(t)
	uploads := NewUploadController(Storage.NewLocalStorage(t.TempDir()))
	patient := newPatient(t, "amara")
	session := createSession(t, chat, patient, "Chat")

	w := uploadImage(t, uploads, patient, session.ID, "rash.jpg", "image/jpeg", []byte("fake jpeg bytes"))
	if w.Code != http.StatusOK {
		t.Fatalf("UploadChatImage status = %d, body = %s", w.Code, w.Body.String())
	}
	var uploaded struct {
		Key         string `json:"key"`
		URL         string `json:"url"`
		ContentType string `json:"content_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("failed to decode upload response: %v", err)
	}
	wantPrefix := strconv.FormatUint(uint64(patient.ID), 10) + "/" + strconv.FormatUint(uint64(session.ID), 10) + "/"
	if !strings.HasPrefix(uploaded.Key, wantPrefix) {
		t.Errorf("key = %q, want prefix %q", uploaded.Key, wantPrefix)
	}
	if uploaded.ContentType != "image/jpeg" {
		t.Errorf("content_type = %q", uploaded.ContentType)
	}

	w = call(t, uploads.FetchChatImages, patient, gin.H{"session_id": session.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("FetchChatImages status = %d, body = %s", w.Code, w.Body.String())
	}
	var objects []Storage.ObjectInfo
	if err := json.Unmarshal(w.Body.Bytes(), &objects); err != nil {
		t.Fatalf("failed to decode objects: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("objects = %d, want 1", len(objects))
	}

	if w := call(t, uploads.DeleteChatImage, patient, gin.H{"key": uploaded.Key}); w.Code != http.StatusOK {
		t.Fatalf("DeleteChatImage status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestUploadChatImageRejectsDisallowedType(t *testing.T) {
	setupTestDB(t)
	chat := newOfflineChatController(t)
	uploads := NewUploadController(Storage.NewLocalStorage(t.TempDir()))
	patient := newPatient(t, "amara")
	session := createSession(t, chat, patient, "Chat")

	w := uploadImage(t, uploads, patient, session.ID, "report.pdf", "application/pdf", []byte("%PDF-1.4"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("disallowed upload status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestUploadChatImageForeignSession(t *testing.T) {
	setupTestDB(t)
	chat := newOfflineChatController(t)
	uploads := NewUploadController(Storage.NewLocalStorage(t.TempDir()))
	patient := newPatient(t, "amara")
	intruder := newPatient(t, "chidi")
	session := createSession(t, chat, patient, "Chat")

	w := uploadImage(t, uploads, intruder, session.ID, "rash.jpg", "image/jpeg", []byte("bytes"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign upload status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestDeleteChatImageChecksOwner(t *testing.T) {
	setupTestDB(t)
	uploads := NewUploadController(Storage.NewLocalStorage(t.TempDir()))
	patient := newPatient(t, "amara")
	intruder := newPatient(t, "chidi")

	key := strconv.FormatUint(uint64(patient.ID), 10) + "/1/photo.jpg"
	if w := call(t, uploads.DeleteChatImage, intruder, gin.H{"key": key}); w.Code != http.StatusForbidden {
		t.Fatalf("foreign DeleteChatImage status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestDeleteChatImageRejectsTraversalKey(t *testing.T) {
	setupTestDB(t)
	store := Storage.NewLocalStorage(t.TempDir())
	uploads := NewUploadController(store)
	caller := newPatient(t, "amara")
	victim := newPatient(t, "chidi")
	ctx := context.Background()

	victimKey := fmt.Sprintf("%d/1/photo.jpg", victim.ID)
	if _, err := store.Put(ctx, victimKey, "image/jpeg", []byte("victim bytes")); err != nil {
		t.Fatalf("failed to seed victim object: %v", err)
	}

	// A key that passes the first-segment owner check but cleans into another
	// patient's namespace must be refused before it reaches the store.
	traversal := fmt.Sprintf("%d/../%s", caller.ID, victimKey)
	if w := call(t, uploads.DeleteChatImage, caller, gin.H{"key": traversal}); w.Code != http.StatusBadRequest {
		t.Fatalf("traversal DeleteChatImage status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	// Escaping the base directory entirely is refused too.
	escape := fmt.Sprintf("%d/../../main.go", caller.ID)
	if w := call(t, uploads.DeleteChatImage, caller, gin.H{"key": escape}); w.Code != http.StatusBadRequest {
		t.Fatalf("escape DeleteChatImage status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	objects, err := store.List(ctx, fmt.Sprintf("%d/1", victim.ID))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("victim objects = %d, want 1", len(objects))
	}
}
