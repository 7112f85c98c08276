package workflow

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"artexport/client"
	"artexport/config"
	"artexport/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExporter struct {
	result *types.ExportResult
	err    error
	calls  []types.ExportRequest
	block  chan struct{}
}

func (f *fakeExporter) RequestExport(ctx context.Context, req types.ExportRequest) (*types.ExportResult, error) {
	f.calls = append(f.calls, req)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.result, f.err
}

type fakeUploader struct {
	mu       sync.Mutex
	payloads []types.UploadPayload
	err      error
	wait     bool
}

func (f *fakeUploader) Upload(ctx context.Context, payload types.UploadPayload) (*client.UploadResponse, error) {
	f.mu.Lock()
	f.payloads = append(f.payloads, payload)
	f.mu.Unlock()
	if f.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &client.UploadResponse{ID: "upload-1"}, nil
}

type fakeNavigator struct {
	urls []string
	err  error
}

func (f *fakeNavigator) OpenExternalURL(ctx context.Context, url string) error {
	f.urls = append(f.urls, url)
	return f.err
}

type fakeNotifier struct {
	events []types.UploadEvent
}

func (f *fakeNotifier) Notify(ctx context.Context, event types.UploadEvent) error {
	f.events = append(f.events, event)
	return nil
}

func completed(url, title string) *types.ExportResult {
	return &types.ExportResult{
		Status:      types.ExportCompleted,
		ExportBlobs: []types.ExportedBlob{{URL: url}},
		Title:       title,
	}
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestRunAbandonedExportIsSilent(t *testing.T) {
	cases := []struct {
		name   string
		result *types.ExportResult
		err    error
	}{
		{"aborted status", &types.ExportResult{Status: types.ExportAborted}, nil},
		{"completed without blobs", &types.ExportResult{Status: types.ExportCompleted}, nil},
		{"unknown status with blobs", &types.ExportResult{Status: "pending", ExportBlobs: []types.ExportedBlob{{URL: "https://x/a.png"}}}, nil},
		{"nil result", nil, nil},
		{"exporter error", nil, errors.New("dialog crashed")},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			exp := &fakeExporter{result: c.result, err: c.err}
			up := &fakeUploader{}
			nav := &fakeNavigator{}
			ctrl := NewController(exp, up, nav, Options{})

			outcome, err := ctrl.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, types.OutcomeAbandoned, outcome)
			assert.Equal(t, types.WorkflowState{}, ctrl.State())
			assert.Empty(t, up.payloads)
			assert.Empty(t, nav.urls)
		})
	}
}

func TestRunRequestsSingleFormat(t *testing.T) {
	exp := &fakeExporter{result: &types.ExportResult{Status: types.ExportAborted}}
	ctrl := NewController(exp, &fakeUploader{}, &fakeNavigator{}, Options{Format: "PNG"})

	_, err := ctrl.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, exp.calls, 1)
	assert.Equal(t, []string{"png"}, exp.calls[0].AcceptedFileTypes)
}

func TestRunMultiPageExportSetsError(t *testing.T) {
	for _, url := range []string{"https://x/a.zip", "https://bucket.s3/designs/a.ZIP?X-Amz-Signature=abc"} {
		t.Run(url, func(t *testing.T) {
			up := &fakeUploader{}
			nav := &fakeNavigator{}
			ctrl := NewController(&fakeExporter{result: completed(url, "Logo")}, up, nav, Options{})

			outcome, err := ctrl.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, types.OutcomeMultiPage, outcome)
			assert.Equal(t, types.WorkflowState{Busy: false, ErrorMessage: "Selecione apenas uma página!"}, ctrl.State())
			assert.Empty(t, up.payloads)
			assert.Empty(t, nav.urls)
		})
	}
}

func TestRunNextRunClearsError(t *testing.T) {
	exp := &fakeExporter{result: completed("https://x/a.zip", "")}
	ctrl := NewController(exp, &fakeUploader{}, &fakeNavigator{}, Options{})

	_, err := ctrl.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, ctrl.State().ErrorMessage)

	exp.result = &types.ExportResult{Status: types.ExportAborted}
	_, err = ctrl.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ctrl.State().ErrorMessage)
}

func TestRunUploadsTrimmedTitle(t *testing.T) {
	up := &fakeUploader{}
	nav := &fakeNavigator{}
	ctrl := NewController(&fakeExporter{result: completed("https://x/a.png", "  Meu Logo \n")}, up, nav, Options{})

	outcome, err := ctrl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeNavigated, outcome)

	require.Len(t, up.payloads, 1)
	assert.Equal(t, "Meu Logo", up.payloads[0].Title)
	require.Len(t, up.payloads[0].Files, 1)
	assert.Equal(t, types.ExportedFile{URL: "https://x/a.png", MimeType: "image/png"}, up.payloads[0].Files[0])
	assert.Equal(t, []string{"https://mockup.levebrasa.com/internal/mockup?arte=Meu%20Logo"}, nav.urls)
}

func TestRunSynthesizesTitle(t *testing.T) {
	pattern := regexp.MustCompile(`^CanvaDesign-\d+$`)

	var titles []string
	for _, ms := range []int64{1700000000000, 1700000000001} {
		up := &fakeUploader{}
		ctrl := NewController(&fakeExporter{result: completed("https://x/a.png", "   ")}, up, &fakeNavigator{}, Options{Now: fixedClock(ms)})

		_, err := ctrl.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, up.payloads, 1)
		assert.Regexp(t, pattern, up.payloads[0].Title)
		titles = append(titles, up.payloads[0].Title)
	}

	assert.Equal(t, "CanvaDesign-1700000000000", titles[0])
	assert.NotEqual(t, titles[0], titles[1])
}

func TestRunUploadFailureDoesNotNavigate(t *testing.T) {
	cases := []struct {
		name    string
		policy  config.UploadFailurePolicy
		wantMsg string
	}{
		{"silent", config.PolicySilent, ""},
		{"default", "", ""},
		{"surface", config.PolicySurface, config.MsgUploadFailed},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			up := &fakeUploader{err: &client.StatusError{StatusCode: 500, Body: "boom"}}
			nav := &fakeNavigator{}
			ctrl := NewController(&fakeExporter{result: completed("https://x/a.png", "Logo")}, up, nav, Options{FailurePolicy: c.policy})

			outcome, err := ctrl.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, types.OutcomeUploadFailed, outcome)
			assert.Len(t, up.payloads, 1)
			assert.Empty(t, nav.urls)
			assert.Equal(t, types.WorkflowState{ErrorMessage: c.wantMsg}, ctrl.State())
		})
	}
}

func TestRunNavigationErrorIsIgnored(t *testing.T) {
	nav := &fakeNavigator{err: errors.New("no browser")}
	ctrl := NewController(&fakeExporter{result: completed("https://x/a.png", "Logo")}, &fakeUploader{}, nav, Options{})

	outcome, err := ctrl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeNavigated, outcome)
	assert.Len(t, nav.urls, 1)
	assert.Equal(t, types.WorkflowState{}, ctrl.State())
}

func TestRunNotifiesOnSuccess(t *testing.T) {
	notifier := &fakeNotifier{}
	ctrl := NewController(&fakeExporter{result: completed("https://x/a.png", "Logo")}, &fakeUploader{}, &fakeNavigator{},
		Options{Notifier: notifier, Now: fixedClock(42)})

	_, err := ctrl.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, notifier.events, 1)
	ev := notifier.events[0]
	assert.Equal(t, "upload-1", ev.ID)
	assert.Equal(t, "Logo", ev.Title)
	assert.Equal(t, "https://mockup.levebrasa.com/internal/mockup?arte=Logo", ev.FollowUpURL)
	assert.Equal(t, time.UnixMilli(42), ev.UploadedAt)
}

func TestRunBusyWhileExportPendingAndRejectsReentry(t *testing.T) {
	exp := &fakeExporter{result: &types.ExportResult{Status: types.ExportAborted}, block: make(chan struct{})}
	ctrl := NewController(exp, &fakeUploader{}, &fakeNavigator{}, Options{})

	done := make(chan types.Outcome)
	go func() {
		outcome, _ := ctrl.Run(context.Background())
		done <- outcome
	}()

	require.Eventually(t, func() bool { return ctrl.State().Busy }, time.Second, time.Millisecond)

	outcome, err := ctrl.Run(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, types.OutcomeBusy, outcome)
	assert.True(t, ctrl.State().Busy)

	close(exp.block)
	assert.Equal(t, types.OutcomeAbandoned, <-done)
	assert.False(t, ctrl.State().Busy)
	assert.Equal(t, 1, ctrl.Status().Runs)
}

func TestRunClearsBusyOnPanic(t *testing.T) {
	ctrl := NewController(panicExporter{}, &fakeUploader{}, &fakeNavigator{}, Options{})

	func() {
		defer func() { _ = recover() }()
		_, _ = ctrl.Run(context.Background())
	}()

	assert.False(t, ctrl.State().Busy)
}

type panicExporter struct{}

func (panicExporter) RequestExport(context.Context, types.ExportRequest) (*types.ExportResult, error) {
	panic("export capability crashed")
}

func TestRunExportTimeoutIsAbandoned(t *testing.T) {
	exp := &fakeExporter{result: completed("https://x/a.png", "Logo"), block: make(chan struct{})}
	up := &fakeUploader{}
	ctrl := NewController(exp, up, &fakeNavigator{}, Options{ExportTimeout: 20 * time.Millisecond})

	outcome, err := ctrl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeAbandoned, outcome)
	assert.Empty(t, up.payloads)
	assert.False(t, ctrl.State().Busy)
}

func TestRunUploadTimeoutIsUploadFailure(t *testing.T) {
	up := &fakeUploader{wait: true}
	nav := &fakeNavigator{}
	ctrl := NewController(&fakeExporter{result: completed("https://x/a.png", "Logo")}, up, nav, Options{UploadTimeout: 20 * time.Millisecond})

	outcome, err := ctrl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeUploadFailed, outcome)
	assert.Empty(t, nav.urls)
}

func TestRunAgainstHTTPEndpoint(t *testing.T) {
	var (
		mu      sync.Mutex
		gotBody string
		hits    int
		status  = http.StatusOK
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		mu.Lock()
		defer mu.Unlock()
		hits++
		gotBody = string(b)
		w.WriteHeader(status)
	}))
	defer srv.Close()

	nav := &fakeNavigator{}
	ctrl := NewController(
		&fakeExporter{result: completed("https://x/a.png", "Logo")},
		client.NewUploadClient(srv.URL, "token"),
		nav,
		Options{},
	)

	outcome, err := ctrl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeNavigated, outcome)
	mu.Lock()
	assert.JSONEq(t, `{"title":"Logo","files":[{"url":"https://x/a.png","mimeType":"image/png"}]}`, gotBody)
	status = http.StatusBadGateway
	mu.Unlock()
	assert.Equal(t, []string{"https://mockup.levebrasa.com/internal/mockup?arte=Logo"}, nav.urls)

	outcome, err = ctrl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeUploadFailed, outcome)
	assert.Len(t, nav.urls, 1)
	mu.Lock()
	assert.Equal(t, 2, hits)
	mu.Unlock()
}

func TestRunTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	nav := &fakeNavigator{}
	ctrl := NewController(&fakeExporter{result: completed("https://x/a.png", "Logo")}, client.NewUploadClient(url, ""), nav, Options{})

	outcome, err := ctrl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeUploadFailed, outcome)
	assert.Empty(t, nav.urls)
	assert.Equal(t, types.WorkflowState{}, ctrl.State())
}

func TestFinishIsIdempotent(t *testing.T) {
	m := newStateManager(time.Now)
	require.True(t, m.begin())
	m.finish()
	m.finish()
	assert.False(t, m.snapshot().Busy)
	assert.True(t, m.begin())
}

func TestStatusLogsAreBounded(t *testing.T) {
	m := newStateManager(time.Now)
	for i := 0; i < config.MaxLogEntries+10; i++ {
		m.addLog("entry")
	}
	assert.Len(t, m.status().Logs, config.MaxLogEntries)
}

func TestDeriveTitle(t *testing.T) {
	now := time.UnixMilli(1234)
	assert.Equal(t, "Logo", DeriveTitle(" Logo ", "CanvaDesign", now))
	assert.Equal(t, "CanvaDesign-1234", DeriveTitle("", "CanvaDesign", now))
	assert.Equal(t, "X-1234", DeriveTitle("\t", "X", now))
}

func TestMimeType(t *testing.T) {
	assert.Equal(t, "image/png", MimeType("png"))
	assert.Equal(t, "image/jpeg", MimeType("JPG"))
}

func TestStartSetsBusySynchronously(t *testing.T) {
	exp := &fakeExporter{result: completed("https://x/a.png", "Logo"), block: make(chan struct{})}
	nav := &fakeNavigator{}
	ctrl := NewController(exp, &fakeUploader{}, nav, Options{})

	done, err := ctrl.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, ctrl.State().Busy)

	_, err = ctrl.Start(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(exp.block)
	assert.Equal(t, types.OutcomeNavigated, <-done)
	_, open := <-done
	assert.False(t, open)
	assert.False(t, ctrl.State().Busy)

	status := ctrl.Status()
	assert.Equal(t, types.OutcomeNavigated, status.LastOutcome)
	assert.Equal(t, "Logo", status.LastTitle)
	assert.NotEmpty(t, status.Logs)
}
