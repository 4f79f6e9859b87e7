package interaction

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/LouYuanbo1/daadcrawler/internal/infra/crawler/fake"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/logger"
	"github.com/LouYuanbo1/daadcrawler/param"
	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formPage = `<html><body>
<button>Accept all cookies</button>
<div id="ifa-stipendien-detail">
<ul class="tabs"><li id="bewerbungsvoraussetzungen"><a href="#req">Application requirements</a></li></ul>
<form id="select-application-info-form">
  <div class="row">
    <select id="status"><option value="">Please select</option><option value=" ">blank</option><option value="1">Graduates</option><option value="2">Doctoral</option></select>
  </div>
  <div class="row">
    <select name="origin"><option value="">Please select</option></select>
  </div>
  <div class="row">
    <label>Subject</label>
    <select name="subject"><option>Engineering</option><option>Medicine</option></select>
    <select name="subject"><option value="">-</option><option value="x">X</option></select>
  </div>
  <button id="stipdb-submit-detail" type="button">Show</button>
</form>
</div>
</body></html>`

const plainPage = `<html><body><div id="ifa-stipendien-detail"><p>nothing to do</p></div></body></html>`

const (
	formSelector = "#select-application-info-form"
	statusSelect = "#select-application-info-form #status"
	firstSubject = "#select-application-info-form > div:nth-child(3) > select:nth-child(2)"
	lastSubject  = "#select-application-info-form > div:nth-child(3) > select:nth-child(3)"
)

func newSequencer() *Sequencer {
	// 测试中不等待
	return NewSequencer(param.DefaultSite(), &param.Interaction{}, logger.Discard())
}

func openPage(t *testing.T, raw string) (*fake.Browser, *fake.Session) {
	t.Helper()
	b := fake.NewBrowser(map[string]*fake.Page{"https://example.test/": {HTML: raw}})
	s, err := b.NewSession(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Navigate(context.Background(), "https://example.test/"))
	return b, s.(*fake.Session)
}

func TestPlanEligibility(t *testing.T) {
	choices, err := PlanEligibility(formPage, formSelector)
	require.NoError(t, err)

	want := []Choice{
		{Selector: statusSelect, Value: "1", Label: "Graduates"},
		{Selector: firstSubject, Value: "Engineering", Label: "Engineering"},
		{Selector: lastSubject, Value: "x", Label: "X"},
	}
	assert.Equal(t, want, choices)
}

func TestPlanEligibilityUniqueName(t *testing.T) {
	raw := `<form id="f"><select name="origin"><option value="de">Germany</option></select></form>`
	choices, err := PlanEligibility(raw, "#f")
	require.NoError(t, err)
	require.Len(t, choices, 1)
	assert.Equal(t, `#f select[name="origin"]`, choices[0].Selector)
	assert.Equal(t, "de", choices[0].Value)
}

func TestPlanEligibilityScopesIDToForm(t *testing.T) {
	raw := `<select id="status"><option value="outside">Outside</option></select>
<form id="f"><select id="status"><option value="inside">Inside</option></select></form>`
	choices, err := PlanEligibility(raw, "#f")
	require.NoError(t, err)
	require.Len(t, choices, 1)
	assert.Equal(t, "#f #status", choices[0].Selector)
	assert.Equal(t, "inside", choices[0].Value)

	// 选择器在整页上只命中表单内的控件
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	require.NoError(t, err)
	hit := doc.Find(choices[0].Selector)
	require.Equal(t, 1, hit.Length())
	assert.Equal(t, "inside", hit.Find("option").AttrOr("value", ""))
}

func TestPlanEligibilityWithoutForm(t *testing.T) {
	choices, err := PlanEligibility(plainPage, formSelector)
	require.NoError(t, err)
	assert.Empty(t, choices)
}

func TestDismissConsent(t *testing.T) {
	ctx := context.Background()
	seq := newSequencer()

	b, s := openPage(t, formPage)
	accepted, err := seq.DismissConsent(ctx, s)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, []string{
		"navigate https://example.test/",
		"wait " + param.ConsentAcceptSelector,
		"click " + param.ConsentAcceptSelector,
	}, b.Recorded())

	_, s = openPage(t, plainPage)
	accepted, err = seq.DismissConsent(ctx, s)
	require.NoError(t, err)
	assert.False(t, accepted)
}

func TestOpenRequirementsFillsForm(t *testing.T) {
	b, s := openPage(t, formPage)
	require.NoError(t, newSequencer().OpenRequirements(context.Background(), s))

	assert.Equal(t, []string{
		"navigate https://example.test/",
		"wait " + param.RequirementsTabSelector,
		"click " + param.RequirementsTabSelector,
		"wait " + formSelector,
		"select " + statusSelect + "=1",
		"change " + statusSelect,
		"select " + firstSubject + "=Engineering",
		"change " + firstSubject,
		"select " + lastSubject + "=x",
		"change " + lastSubject,
		"click " + param.EligibilitySubmitSelector,
	}, b.Recorded())
}

func TestOpenRequirementsWithoutTab(t *testing.T) {
	b, s := openPage(t, plainPage)
	require.NoError(t, newSequencer().OpenRequirements(context.Background(), s))
	assert.Equal(t, []string{
		"navigate https://example.test/",
		"wait " + param.RequirementsTabSelector,
	}, b.Recorded())
}

func TestResolveEligibilityWithoutForm(t *testing.T) {
	b, s := openPage(t, plainPage)
	require.NoError(t, newSequencer().ResolveEligibility(context.Background(), s))
	assert.Equal(t, []string{
		"navigate https://example.test/",
		"wait " + formSelector,
	}, b.Recorded())
}

func TestSequencerStopsOnCancel(t *testing.T) {
	_, s := openPage(t, formPage)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newSequencer().DismissConsent(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPause(t *testing.T) {
	assert.NoError(t, Pause(context.Background(), 0))
	assert.NoError(t, Pause(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.ErrorIs(t, Pause(ctx, time.Minute), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
