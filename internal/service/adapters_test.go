package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectLink(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://www.dropbox.com/s/abc/r.csv?dl=0", "https://www.dropbox.com/s/abc/r.csv?dl=1"},
		{"https://www.dropbox.com/s/abc/r.csv?dl=1", "https://www.dropbox.com/s/abc/r.csv?dl=1"},
		{"https://www.dropbox.com/scl/fi/abc/r.csv?rlkey=x", "https://www.dropbox.com/scl/fi/abc/r.csv?rlkey=x&dl=1"},
		{"https://www.dropbox.com/s/abc/r.csv", "https://www.dropbox.com/s/abc/r.csv?dl=1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DirectLink(tt.in))
	}
}

func TestNewDropboxUploader_NoToken(t *testing.T) {
	assert.Nil(t, NewDropboxUploader("", "/r", "http://a", "http://c"))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func TestDropboxUploader_ExistingSharedLink(t *testing.T) {
	var uploadedPath, uploadedBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/2/files/upload":
			var arg map[string]interface{}
			assert.NoError(t, json.Unmarshal([]byte(r.Header.Get("Dropbox-API-Arg")), &arg))
			uploadedPath, _ = arg["path"].(string)
			body, _ := io.ReadAll(r.Body)
			uploadedBody = string(body)
			writeJSON(w, http.StatusOK, `{"name":"report.csv","path_display":"/x/report.csv","id":"id:1"}`)
		case "/2/sharing/create_shared_link_with_settings":
			writeJSON(w, http.StatusConflict, `{"error_summary":"shared_link_already_exists/..","error":{".tag":"shared_link_already_exists"}}`)
		case "/2/sharing/list_shared_links":
			writeJSON(w, http.StatusOK, `{"links":[{".tag":"file","url":"https://www.dropbox.com/s/abc/report.csv?dl=0","name":"report.csv"}],"has_more":false}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	d := NewDropboxUploader("tkn", "/timeclock/reports/", srv.URL, srv.URL)
	d.now = func() time.Time { return time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC) }

	url, err := d.UploadReport(ctx, "report.csv", []byte("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://www.dropbox.com/s/abc/report.csv?dl=1", url)
	assert.True(t, strings.HasPrefix(uploadedPath, "/timeclock/reports/2024/03/"), uploadedPath)
	assert.True(t, strings.HasSuffix(uploadedPath, "_report.csv"), uploadedPath)
	assert.Equal(t, "a,b\n", uploadedBody)
}

func TestDropboxUploader_NewSharedLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/2/files/upload":
			writeJSON(w, http.StatusOK, `{"name":"a.png"}`)
		case "/2/sharing/create_shared_link_with_settings":
			writeJSON(w, http.StatusOK, `{".tag":"file","url":"https://www.dropbox.com/s/new/a.png?dl=0","name":"a.png"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	url, err := NewDropboxUploader("tkn", "/r", srv.URL, srv.URL).Upload(ctx, "/user_photos/a@x.io", "a.png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "https://www.dropbox.com/s/new/a.png?dl=1", url)
}

func TestDropboxUploader_UploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"error_summary":"invalid_access_token/","error":{".tag":"invalid_access_token"}}`)
	}))
	defer srv.Close()

	d := NewDropboxUploader("bad", "/r", srv.URL, srv.URL)
	_, err := d.Upload(ctx, "/r", "report.csv", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dropbox upload /r/")
}

func TestExportService_FallsBackWhenUploadFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := newReportFixture(t)
	exp := NewExportService(f.reports, NewDropboxUploader("tkn", "/r", srv.URL, srv.URL))
	file, err := exp.Export(ctx, ReportFilter{Start: monday(0, 0), End: monday(0, 0)}, FormatCSV)
	require.NoError(t, err)
	assert.Empty(t, file.URL)
	assert.NotEmpty(t, file.Data)
}

type fakeSender struct {
	calls [][]string
	msgs  []*messaging.MulticastMessage
	fail  map[string]error
	err   error
}

func (f *fakeSender) SendEachForMulticast(_ context.Context, m *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, m.Tokens)
	f.msgs = append(f.msgs, m)
	resp := &messaging.BatchResponse{}
	for _, tok := range m.Tokens {
		if err := f.fail[tok]; err != nil {
			resp.FailureCount++
			resp.Responses = append(resp.Responses, &messaging.SendResponse{Error: err})
			continue
		}
		resp.SuccessCount++
		resp.Responses = append(resp.Responses, &messaging.SendResponse{Success: true, MessageID: "m-" + tok})
	}
	return resp, nil
}

func TestFCMPusher(t *testing.T) {
	sender := &fakeSender{}
	p := &FCMPusher{client: sender}

	require.NoError(t, p.Push(ctx, []string{"a", "b"}, "Title", "Body"))
	require.Len(t, sender.msgs, 1)
	assert.Equal(t, []string{"a", "b"}, sender.msgs[0].Tokens)
	assert.Equal(t, "Title", sender.msgs[0].Notification.Title)
	assert.Equal(t, "Body", sender.msgs[0].Notification.Body)

	assert.NoError(t, p.Push(ctx, nil, "t", "b"))
	assert.Len(t, sender.calls, 1)
}

func TestFCMPusher_Batches(t *testing.T) {
	sender := &fakeSender{}
	tokens := make([]string, fcmMulticastLimit+1)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("tok-%d", i)
	}
	require.NoError(t, (&FCMPusher{client: sender}).Push(ctx, tokens, "t", "b"))
	require.Len(t, sender.calls, 2)
	assert.Len(t, sender.calls[0], fcmMulticastLimit)
	assert.Equal(t, []string{"tok-500"}, sender.calls[1])
}

func TestFCMPusher_Failures(t *testing.T) {
	bad := errors.New("invalid token")
	partial := &FCMPusher{client: &fakeSender{fail: map[string]error{"a": bad}}}
	assert.NoError(t, partial.Push(ctx, []string{"a", "b"}, "t", "b"))

	all := &FCMPusher{client: &fakeSender{fail: map[string]error{"a": bad}}}
	err := all.Push(ctx, []string{"a"}, "t", "b")
	assert.ErrorIs(t, err, bad)

	down := &FCMPusher{client: &fakeSender{err: errors.New("unavailable")}}
	assert.Error(t, down.Push(ctx, []string{"a"}, "t", "b"))
}
