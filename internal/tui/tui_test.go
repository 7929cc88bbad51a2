package tui

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/plagcheck/internal/client"
	"github.com/raphaelgruber/plagcheck/internal/config"
	"github.com/raphaelgruber/plagcheck/internal/models"
	"github.com/raphaelgruber/plagcheck/internal/render"
	"github.com/raphaelgruber/plagcheck/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	catalog    []models.ModelInfo
	catalogErr error
	resp       *models.AnalysisResponse
	err        error
	calls      atomic.Int32
}

func (f *fakeService) ListModels(context.Context) ([]models.ModelInfo, error) {
	return f.catalog, f.catalogErr
}

func (f *fakeService) Analyze(context.Context, models.AnalysisRequest) (*models.AnalysisResponse, error) {
	f.calls.Add(1)
	return f.resp, f.err
}

func twoTextResponse() *models.AnalysisResponse {
	return &models.AnalysisResponse{
		Success:   true,
		Texts:     []string{"first text", "second text"},
		TextCount: 2,
		Results: map[string]models.ModelResult{
			models.DefaultModel: {
				SimilarityMatrix: models.SimilarityMatrix{{1, 0.9}, {0.9, 1}},
				Threshold:        0.8,
				ProcessingTime:   0.1,
			},
		},
	}
}

var (
	keyTab      = tea.KeyPressMsg{Code: tea.KeyTab}
	keyShiftTab = tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	keyRight    = tea.KeyPressMsg{Code: tea.KeyRight}
	keyLeft     = tea.KeyPressMsg{Code: tea.KeyLeft}
	keySpace    = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	keyDown     = tea.KeyPressMsg{Code: tea.KeyDown}
	keyF1       = tea.KeyPressMsg{Code: tea.KeyF1}
	keyAnalyze  = tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
	keyAdd      = tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}
	keyRemove   = tea.KeyPressMsg{Code: 'd', Mod: tea.ModCtrl}
	keySave     = tea.KeyPressMsg{Code: 'o', Mod: tea.ModCtrl}
)

func newTestModel(svc Service, texts ...string) (Model, *session.Controller) {
	ctrl := session.New(session.WithTexts(texts...))
	return New(ctrl, svc, WithTheme(render.PlainTheme)), ctrl
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// findDone runs the commands of an analyze trigger and returns the settlement.
func findDone(t *testing.T, cmd tea.Cmd) analysisDoneMsg {
	t.Helper()
	require.NotNil(t, cmd)

	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		batch = tea.BatchMsg{func() tea.Msg { return msg }}
	}
	for _, c := range batch {
		if c == nil {
			continue
		}
		if done, ok := c().(analysisDoneMsg); ok {
			return done
		}
	}
	t.Fatal("no analysisDoneMsg produced")
	return analysisDoneMsg{}
}

func TestNewSeedsInputs(t *testing.T) {
	m, _ := newTestModel(&fakeService{}, "alpha", "beta", "gamma")
	require.Len(t, m.inputs, 3)
	assert.Equal(t, "beta", m.inputs[1].Value())
	assert.Equal(t, focusText, m.focus)
	assert.Equal(t, 0, m.textIdx)
}

func TestInitLoadsCatalog(t *testing.T) {
	svc := &fakeService{catalog: []models.ModelInfo{
		{Name: models.DefaultModel, Description: "Fast and efficient"},
		{Name: "all-mpnet-base-v2", Description: "Higher quality"},
	}}
	m, ctrl := newTestModel(svc)

	m, _ = send(t, m, m.Init()())
	assert.Len(t, ctrl.Snapshot().Catalog, 2)
	assert.Equal(t, int64(1), ctrl.Metrics().Snapshot().Catalog.Count)

	out := m.renderContent()
	assert.Contains(t, out, "[x] all-MiniLM-L6-v2")
	assert.Contains(t, out, "[ ] all-mpnet-base-v2")
}

func TestCatalogFailureLeavesListEmpty(t *testing.T) {
	m, ctrl := newTestModel(&fakeService{catalogErr: errors.New("connection refused")})

	m, _ = send(t, m, m.Init()())
	assert.Empty(t, ctrl.Snapshot().Catalog)
	assert.Nil(t, m.toast, "catalog errors are not shown")
	assert.Contains(t, m.renderContent(), "[x] "+models.DefaultModel)
}

func TestAnalyzeRequiresTwoTexts(t *testing.T) {
	svc := &fakeService{resp: twoTextResponse()}
	m, ctrl := newTestModel(svc, "only one", "   ")

	m, cmd := send(t, m, keyAnalyze)
	require.NotNil(t, cmd)
	require.NotNil(t, m.toast)
	assert.Equal(t, toastError, m.toast.kind)
	assert.Equal(t, session.ValidationMessage, m.toast.text)
	assert.Equal(t, session.PhaseIdle, ctrl.Snapshot().Phase)
	assert.Equal(t, int32(0), svc.calls.Load())
	assert.Contains(t, m.renderContent(), "needs at least 2 non-empty texts")
}

func TestAnalyzeSuccess(t *testing.T) {
	svc := &fakeService{resp: twoTextResponse()}
	m, ctrl := newTestModel(svc, "first text", "second text")

	m, cmd := send(t, m, keyAnalyze)
	assert.True(t, ctrl.Snapshot().Pending())
	assert.Contains(t, m.renderContent(), "Analyzing...")

	m, _ = send(t, m, findDone(t, cmd))
	assert.Equal(t, int32(1), svc.calls.Load())
	assert.Equal(t, session.PhaseSucceeded, ctrl.Snapshot().Phase)
	require.NotNil(t, m.toast)
	assert.Equal(t, "Analysis Complete", m.toast.title)

	out := m.renderContent()
	assert.Contains(t, out, "Analysis Results")
	assert.Contains(t, out, "Potential Plagiarism Detected!")
	assert.Contains(t, out, "Text 1 and Text 2 are 90% similar")
}

func TestAnalyzeSingleFlight(t *testing.T) {
	svc := &fakeService{resp: twoTextResponse()}
	m, _ := newTestModel(svc, "a", "b")

	m, first := send(t, m, keyAnalyze)
	require.NotNil(t, first)

	_, second := send(t, m, keyAnalyze)
	assert.Nil(t, second)
}

func TestAnalyzeFailureHidesStaleResult(t *testing.T) {
	svc := &fakeService{resp: twoTextResponse()}
	m, ctrl := newTestModel(svc, "first text", "second text")

	m, cmd := send(t, m, keyAnalyze)
	m, _ = send(t, m, findDone(t, cmd))
	require.Contains(t, m.renderContent(), "Analysis Results")

	svc.resp = nil
	svc.err = &client.ServiceError{StatusCode: 500, Message: "model unavailable"}
	m, cmd = send(t, m, keyAnalyze)
	m, _ = send(t, m, findDone(t, cmd))

	assert.Equal(t, session.PhaseFailed, ctrl.Snapshot().Phase)
	require.NotNil(t, m.toast)
	assert.Equal(t, "model unavailable", m.toast.text)

	out := m.renderContent()
	assert.Contains(t, out, "Error: model unavailable")
	assert.NotContains(t, out, "Analysis Results")
}

func TestAnalyzeFailureWithoutMessage(t *testing.T) {
	svc := &fakeService{err: errors.New("execute request: connection refused")}
	m, _ := newTestModel(svc, "a", "b")

	m, cmd := send(t, m, keyAnalyze)
	m, _ = send(t, m, findDone(t, cmd))

	require.NotNil(t, m.toast)
	assert.Equal(t, session.FallbackMessage, m.toast.text)
}

func TestFocusCycle(t *testing.T) {
	m, _ := newTestModel(&fakeService{}, "a", "b")

	m, _ = send(t, m, keyTab)
	assert.Equal(t, focusText, m.focus)
	assert.Equal(t, 1, m.textIdx)

	m, _ = send(t, m, keyTab)
	assert.Equal(t, focusThreshold, m.focus)

	m, _ = send(t, m, keyTab)
	assert.Equal(t, focusModels, m.focus)

	m, _ = send(t, m, keyTab)
	assert.Equal(t, focusText, m.focus)
	assert.Equal(t, 0, m.textIdx)

	m, _ = send(t, m, keyShiftTab)
	assert.Equal(t, focusModels, m.focus)
}

func TestThresholdKeys(t *testing.T) {
	m, ctrl := newTestModel(&fakeService{})
	m, _ = send(t, m, keyShiftTab)
	m, _ = send(t, m, keyShiftTab)
	require.Equal(t, focusThreshold, m.focus)

	m, _ = send(t, m, keyRight)
	assert.Equal(t, 0.85, ctrl.Snapshot().Threshold)

	for i := 0; i < 10; i++ {
		m, _ = send(t, m, keyRight)
	}
	assert.Equal(t, models.MaxThreshold, ctrl.Snapshot().Threshold)

	m, _ = send(t, m, keyLeft)
	assert.Equal(t, 0.95, ctrl.Snapshot().Threshold)
	assert.Contains(t, m.renderContent(), "Similarity Threshold: 95%")
}

func TestModelToggle(t *testing.T) {
	svc := &fakeService{catalog: []models.ModelInfo{{Name: models.DefaultModel}, {Name: "all-mpnet-base-v2"}}}
	m, ctrl := newTestModel(svc)
	m, _ = send(t, m, m.Init()())
	m, _ = send(t, m, keyShiftTab)
	require.Equal(t, focusModels, m.focus)

	m, _ = send(t, m, keySpace)
	assert.Empty(t, ctrl.Snapshot().Selected)

	m, _ = send(t, m, keyDown)
	_, _ = send(t, m, keySpace)
	assert.Equal(t, []string{"all-mpnet-base-v2"}, ctrl.Snapshot().Selected)
}

func TestAddRemoveText(t *testing.T) {
	m, ctrl := newTestModel(&fakeService{}, "a", "b")

	m, _ = send(t, m, keyRemove)
	require.NotNil(t, m.toast)
	assert.Equal(t, "At least 2 texts are required", m.toast.text)
	assert.Len(t, ctrl.Snapshot().Texts, 2)

	m, _ = send(t, m, keyAdd)
	assert.Len(t, m.inputs, 3)
	assert.Equal(t, 2, m.textIdx)
	assert.Len(t, ctrl.Snapshot().Texts, 3)

	m, _ = send(t, m, keyRemove)
	assert.Len(t, m.inputs, 2)
	assert.Equal(t, 1, m.textIdx)
	assert.Equal(t, []string{"a", "b"}, ctrl.Snapshot().Texts)
}

func TestTypingSyncsController(t *testing.T) {
	m, ctrl := newTestModel(&fakeService{})

	for _, r := range "hi" {
		m, _ = send(t, m, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	assert.Equal(t, "hi", ctrl.Snapshot().Texts[0])
}

func TestPasteSyncsController(t *testing.T) {
	svc := &fakeService{resp: twoTextResponse()}
	m, ctrl := newTestModel(svc)

	m, _ = send(t, m, tea.PasteMsg{Content: "pasted document"})
	assert.Equal(t, m.inputs[0].Value(), ctrl.Snapshot().Texts[0])
	assert.False(t, ctrl.Snapshot().CanAnalyze())

	m, _ = send(t, m, keyTab)
	m, _ = send(t, m, tea.PasteMsg{Content: "second document"})
	assert.Equal(t, []string{"pasted document", "second document"}, ctrl.Snapshot().Texts)
	require.True(t, ctrl.Snapshot().CanAnalyze())

	_, cmd := send(t, m, keyAnalyze)
	findDone(t, cmd)
	require.NotNil(t, ctrl.Snapshot().Submitted)
	assert.Equal(t, []string{"pasted document", "second document"}, ctrl.Snapshot().Submitted.Texts)
}

func TestSaveSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	ctrl := session.New(
		session.WithTexts("first essay", "second essay"),
		session.WithThreshold(0.75),
		session.WithModels("stub-model"),
	)
	m := New(ctrl, &fakeService{}, WithTheme(render.PlainTheme), WithSessionPath(path))

	m, cmd := send(t, m, keySave)
	require.NotNil(t, cmd)
	msg := cmd()
	m, _ = send(t, m, msg)

	require.NotNil(t, m.toast)
	assert.Equal(t, toastSuccess, m.toast.kind)
	assert.Equal(t, "Saved to "+path, m.toast.text)

	saved, err := config.LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"first essay", "second essay"}, saved.Texts)
	assert.Equal(t, 0.75, saved.ThresholdOr(0))
	assert.Equal(t, []string{"stub-model"}, saved.Models)
}

func TestSaveSessionFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "session.yaml")
	m, _ := newTestModel(&fakeService{}, "a", "b")
	m = New(m.ctrl, m.svc, WithSessionPath(path))

	m, cmd := send(t, m, keySave)
	m, _ = send(t, m, cmd())

	require.NotNil(t, m.toast)
	assert.Equal(t, toastError, m.toast.kind)
	assert.Equal(t, "Could not save session", m.toast.text)
}

func TestDefaultSessionPath(t *testing.T) {
	m, _ := newTestModel(&fakeService{})
	assert.Equal(t, DefaultSessionFile, m.session)

	m = New(m.ctrl, m.svc, WithSessionPath(""))
	assert.Equal(t, DefaultSessionFile, m.session)
}

func TestToastExpiry(t *testing.T) {
	m, _ := newTestModel(&fakeService{}, "a", "")

	m, _ = send(t, m, keyAnalyze)
	require.NotNil(t, m.toast)
	firstID := m.toast.id

	m, _ = send(t, m, keyAnalyze)
	require.NotNil(t, m.toast)

	m, _ = send(t, m, toastExpiredMsg{id: firstID})
	assert.NotNil(t, m.toast, "a newer toast survives an older expiry")

	m, _ = send(t, m, toastExpiredMsg{id: m.toast.id})
	assert.Nil(t, m.toast)
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(&fakeService{})

	m, _ = send(t, m, keyF1)
	assert.Contains(t, m.renderContent(), "Keys:")

	m, _ = send(t, m, keyF1)
	assert.NotContains(t, m.renderContent(), "Keys:")
}
