package game

import (
	"math/rand/v2"
	"reflect"
	"testing"
	"time"

	"github.com/iburimskiy/party-countdown/internal/audio"
	"github.com/iburimskiy/party-countdown/internal/config"
	"github.com/iburimskiy/party-countdown/internal/effects"
	"github.com/iburimskiy/party-countdown/internal/events"
	"github.com/iburimskiy/party-countdown/internal/particle"
)

type fakeMusic struct {
	playing bool
	toggles int
}

func (f *fakeMusic) Toggle()                    { f.toggles++; f.playing = !f.playing }
func (f *fakeMusic) Playing() bool              { return f.playing }
func (f *fakeMusic) Levels(count int) []float64 { return make([]float64, count) }

type silentBackend struct{}

func (silentBackend) Play(bool) error { return nil }
func (silentBackend) SetMuted(bool)   {}
func (silentBackend) Pause()          {}

// wallStart is a launch time between the default event start and the
// registration deadline.
var wallStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

type fixture struct {
	page  *page
	bus   *events.Bus
	music *fakeMusic
	trail *particle.Pool
}

func newFixture(t *testing.T, mobile bool) *fixture {
	t.Helper()
	rnd := rand.New(rand.NewPCG(1, 2))
	f := &fixture{
		bus:   events.NewBus(),
		music: &fakeMusic{},
	}
	if !mobile {
		f.trail = particle.NewPool(particle.TrailParams(), rnd)
	}
	f.page = newPage(config.Default(), f.bus, f.music, f.trail, rnd, mobile, config.WindowWidth, config.WindowHeight)
	return f
}

// at advances the page to d after launch.
func (f *fixture) at(d time.Duration) {
	f.page.update(d, wallStart.Add(d))
}

func (f *fixture) toMain() time.Duration {
	now := f.page.timeline.MainAt()
	f.at(now)
	return now
}

func (f *fixture) click(x, y float64) {
	f.bus.Publish(events.Event{Kind: events.Click, X: x, Y: y})
}

func (f *fixture) move(x, y float64) {
	f.bus.Publish(events.Event{Kind: events.PointerMove, X: x, Y: y})
}

func TestTimelinePhases(t *testing.T) {
	tests := []struct {
		mobile  bool
		elapsed time.Duration
		want    Phase
	}{
		{false, 0, PhaseLoading},
		{false, 2999 * time.Millisecond, PhaseLoading},
		{false, 3 * time.Second, PhaseFading},
		{false, 3799 * time.Millisecond, PhaseFading},
		{false, 3800 * time.Millisecond, PhaseMain},
		{true, 2 * time.Second, PhaseFading},
		{true, 2800 * time.Millisecond, PhaseMain},
	}
	for _, tt := range tests {
		tl := Timeline{Mobile: tt.mobile}
		if got := tl.Phase(tt.elapsed); got != tt.want {
			t.Errorf("mobile=%v Phase(%v) = %v, want %v", tt.mobile, tt.elapsed, got, tt.want)
		}
	}
}

func TestTimelineFades(t *testing.T) {
	tl := Timeline{}
	if a := tl.LoadingAlpha(time.Second); a != 1 {
		t.Errorf("loading alpha before fade = %v", a)
	}
	if a := tl.LoadingAlpha(3400 * time.Millisecond); a != 0.5 {
		t.Errorf("loading alpha mid fade = %v, want 0.5", a)
	}
	if a := tl.LoadingAlpha(tl.MainAt()); a != 0 {
		t.Errorf("loading alpha at main = %v", a)
	}
	if a := tl.MainAlpha(tl.MainAt()); a != 0 {
		t.Errorf("main alpha at start = %v", a)
	}
	if a := tl.MainAlpha(tl.MainAt() + config.FadeDuration); a != 1 {
		t.Errorf("main alpha after fade = %v", a)
	}
}

func TestTimelineDelays(t *testing.T) {
	desktop, mobile := Timeline{}, Timeline{Mobile: true}
	if got := desktop.SubtitleAt() - desktop.MainAt(); got != 1500*time.Millisecond {
		t.Errorf("desktop subtitle delay = %v", got)
	}
	if got := desktop.IntroAt() - desktop.MainAt(); got != 1200*time.Millisecond {
		t.Errorf("desktop intro delay = %v", got)
	}
	if got := mobile.IntroAt() - mobile.MainAt(); got != 800*time.Millisecond {
		t.Errorf("mobile intro delay = %v", got)
	}
	if got := desktop.RegistrationAt() - desktop.MainAt(); got != 500*time.Millisecond {
		t.Errorf("registration delay = %v", got)
	}
}

func TestModalSubmitClosesAfterDelay(t *testing.T) {
	var m Modal
	if m.Submit(0) {
		t.Fatal("submit on a closed modal")
	}
	m.Open()
	if !m.Submit(time.Second) {
		t.Fatal("first submit ignored")
	}
	if m.Submit(time.Second + time.Millisecond) {
		t.Error("second submit while closing should be ignored")
	}
	m.Update(time.Second + 499*time.Millisecond)
	if !m.IsOpen() {
		t.Fatal("closed before the delay")
	}
	m.Update(time.Second + 500*time.Millisecond)
	if m.IsOpen() || m.Closing() {
		t.Error("still open after the delay")
	}
}

func TestModalReopenCancelsPendingClose(t *testing.T) {
	var m Modal
	m.Open()
	m.Submit(0)
	m.Open()
	m.Update(time.Second)
	if !m.IsOpen() {
		t.Error("reopened modal closed by the stale submit")
	}
}

func TestClicksIgnoredWhileLoading(t *testing.T) {
	f := newFixture(t, false)
	f.at(time.Second)
	cx, cy := f.page.layout.join.Center()
	f.click(cx, cy)
	if f.page.modal.IsOpen() {
		t.Error("modal opened during loading")
	}
}

func TestJoinOpensModalWithSparkle(t *testing.T) {
	f := newFixture(t, false)
	now := f.toMain()
	cx, cy := f.page.layout.join.Center()
	f.click(cx, cy)

	if !f.page.modal.IsOpen() {
		t.Fatal("modal not opened")
	}
	if f.page.bursts.Len() != 1 {
		t.Errorf("bursts = %d, want 1 sparkle", f.page.bursts.Len())
	}
	if f.page.ripple.Radius(now+300*time.Millisecond) <= 0 {
		t.Error("ripple not started")
	}
}

func TestModalCloseTargets(t *testing.T) {
	f := newFixture(t, false)
	f.toMain()
	l := f.page.layout
	jx, jy := l.join.Center()

	closeX, closeY := l.modalClose.Center()
	cancelX, cancelY := l.modalCancel.Center()
	targets := []struct {
		name string
		x, y float64
	}{
		{"close button", closeX, closeY},
		{"cancel", cancelX, cancelY},
		{"overlay", 5, 5},
	}
	for _, tt := range targets {
		f.click(jx, jy)
		if !f.page.modal.IsOpen() {
			t.Fatalf("%s: modal did not open", tt.name)
		}
		f.click(tt.x, tt.y)
		if f.page.modal.IsOpen() {
			t.Errorf("%s: modal still open", tt.name)
		}
	}

	// Clicks inside the box but off the buttons keep it open.
	f.click(jx, jy)
	f.click(l.modal.X+10, l.modal.Y+60)
	if !f.page.modal.IsOpen() {
		t.Error("click inside the modal closed it")
	}
}

func TestFormButtonExplodesThenCloses(t *testing.T) {
	f := newFixture(t, false)
	now := f.toMain()
	l := f.page.layout
	jx, jy := l.join.Center()
	f.click(jx, jy)

	fx, fy := l.modalForm.Center()
	f.click(fx, fy)
	if f.page.bursts.Len() != 2 {
		t.Fatalf("bursts = %d, want sparkle and explosion", f.page.bursts.Len())
	}
	f.click(fx, fy)
	if f.page.bursts.Len() != 2 {
		t.Error("second form click fired another explosion")
	}

	f.at(now + 499*time.Millisecond)
	if !f.page.modal.IsOpen() {
		t.Fatal("modal closed before the explosion was seen")
	}
	f.at(now + 500*time.Millisecond)
	if f.page.modal.IsOpen() {
		t.Error("modal still open after the form delay")
	}
}

func TestRegistrationButton(t *testing.T) {
	f := newFixture(t, false)
	now := f.toMain()
	rx, ry := f.page.layout.register.Center()

	f.click(rx, ry)
	if f.page.modal.IsOpen() {
		t.Fatal("registration button clickable before it slid in")
	}

	f.at(now + config.RegistrationShowDelay)
	if !f.page.registrationOpen() {
		t.Fatal("registration should be open before the deadline")
	}
	if got := f.page.registrationLabel(); got != "Fill Participation Form" {
		t.Errorf("label = %q", got)
	}
	f.click(rx, ry)
	if !f.page.modal.IsOpen() {
		t.Error("registration button did not open the modal")
	}
}

func TestRegistrationClosedAfterDeadline(t *testing.T) {
	f := newFixture(t, false)
	now := f.page.timeline.RegistrationAt()
	f.page.update(now, f.page.cfg.RegistrationAt().Add(time.Second))

	if f.page.registrationOpen() {
		t.Fatal("registration open after the deadline")
	}
	if got := f.page.registrationHeading(); got != "Registration Closed!" {
		t.Errorf("heading = %q", got)
	}
	if got := f.page.registrationLabel(); got != "Form Closed" {
		t.Errorf("label = %q", got)
	}
	rx, ry := f.page.layout.register.Center()
	f.click(rx, ry)
	if f.page.modal.IsOpen() {
		t.Error("closed registration button opened the modal")
	}
}

func TestEventHeading(t *testing.T) {
	f := newFixture(t, false)
	before := f.page.cfg.EventAt().Add(-time.Hour)
	f.page.update(0, before)
	if got := f.page.eventHeading(); got != "Countdown to the party" {
		t.Errorf("before start: %q", got)
	}

	f = newFixture(t, false)
	f.at(0)
	if got := f.page.eventHeading(); got != "The party has begun!" {
		t.Errorf("after start: %q", got)
	}
	got := make([]string, len(f.page.eventRow.Cells))
	for i := range f.page.eventRow.Cells {
		got[i], _ = f.page.eventRow.Cells[i].Text(0)
	}
	if want := []string{"00", "00", "00"}; !reflect.DeepEqual(got, want) {
		t.Errorf("cells = %v, want %v", got, want)
	}
}

func TestEventCellsChangeWithoutFlip(t *testing.T) {
	f := newFixture(t, false)
	before := f.page.cfg.EventAt().Add(-time.Hour)
	f.page.update(0, before)
	f.page.update(61*time.Second, before.Add(61*time.Second))

	var got []string
	for i := range f.page.eventRow.Cells {
		v, updating := f.page.eventRow.Cells[i].Text(61 * time.Second)
		if updating {
			t.Errorf("event cell %d is flipping", i)
		}
		got = append(got, v)
	}
	if want := []string{"00", "00", "58"}; !reflect.DeepEqual(got, want) {
		t.Errorf("cells = %v, want %v", got, want)
	}
	if !f.page.regRow.Flip {
		t.Error("registration row should flip changed cells")
	}
}

func TestToggleFollowsPlayerChanges(t *testing.T) {
	f := newFixture(t, false)
	player := audio.NewController(silentBackend{}, f.bus)
	f.page.music = player
	player.OnChange(f.page.musicChanged)
	now := f.toMain()

	if got := f.page.toggleScale(now); got != 1 {
		t.Fatalf("scale at rest = %v, want 1", got)
	}

	player.Autoplay()
	if got := f.page.toggleScale(now); got != 1 {
		t.Errorf("scale right after autoplay = %v, want 1", got)
	}
	if got := f.page.toggleScale(now + toggleGrow); got != 1.2 {
		t.Errorf("scale once grown = %v, want 1.2", got)
	}

	f.at(now + time.Second)
	f.page.toggleMusic()
	if f.page.musicOn {
		t.Fatal("pause was not reported")
	}
	if got := f.page.toggleScale(now + time.Second + toggleGrow); got != 1 {
		t.Errorf("scale after pause = %v, want 1", got)
	}
}

func TestToggleClick(t *testing.T) {
	f := newFixture(t, false)
	var remembered []bool
	f.page.afterToggle = func(p bool) { remembered = append(remembered, p) }
	f.toMain()

	tx, ty := f.page.layout.toggle.Center()
	f.click(tx, ty)
	f.click(tx, ty)
	if f.music.toggles != 2 {
		t.Errorf("toggles = %d, want 2", f.music.toggles)
	}
	if want := []bool{true, false}; !reflect.DeepEqual(remembered, want) {
		t.Errorf("remembered = %v, want %v", remembered, want)
	}
}

func TestEscape(t *testing.T) {
	f := newFixture(t, false)
	f.toMain()
	jx, jy := f.page.layout.join.Center()
	f.click(jx, jy)
	if f.page.escape() {
		t.Error("escape with the modal open should only close it")
	}
	if f.page.modal.IsOpen() {
		t.Error("escape left the modal open")
	}
	if !f.page.escape() {
		t.Error("escape without a modal should quit")
	}
}

func TestPointerMoveFeedsTrail(t *testing.T) {
	f := newFixture(t, false)
	f.at(time.Second)
	f.move(100, 100)
	if f.trail.Len() != 0 {
		t.Fatalf("trail spawned during loading: %d", f.trail.Len())
	}
	f.toMain()
	f.move(100, 100)
	f.move(110, 105)
	if f.trail.Len() != 2*config.TrailPerMove {
		t.Errorf("trail = %d, want %d", f.trail.Len(), 2*config.TrailPerMove)
	}
}

func TestLetterHoverSpins(t *testing.T) {
	f := newFixture(t, false)
	now := f.toMain()
	box := f.page.letterBoxes[0]
	cx, cy := box.Center()
	f.move(cx, cy)

	f.at(now + letterSpin/2)
	if turn := f.page.letterTurn(0); turn <= 0 || turn >= 1 {
		t.Errorf("turn mid spin = %v", turn)
	}
	if f.page.letterTurn(1) != 0 {
		t.Error("neighbouring letter turned")
	}
	f.at(now + letterSpin)
	if f.page.letterTurn(0) != 0 || f.page.spinning[0] {
		t.Error("spin did not finish")
	}
}

func TestMobileLayoutSkipsTrailAndSpin(t *testing.T) {
	f := newFixture(t, true)
	f.toMain()
	box := f.page.letterBoxes[0]
	cx, cy := box.Center()
	f.move(cx, cy)
	if f.page.spinning[0] {
		t.Error("letters spin on mobile")
	}
	if f.page.trail != nil {
		t.Error("mobile page has a trail")
	}
}

func TestResizeRelaysOut(t *testing.T) {
	f := newFixture(t, false)
	f.bus.Publish(events.Event{Kind: events.Resize, W: 1600, H: 900})
	if f.page.layout.w != 1600 || f.page.layout.h != 900 {
		t.Fatalf("layout = %vx%v", f.page.layout.w, f.page.layout.h)
	}
	if f.page.join.Bounds != f.page.layout.join {
		t.Error("magnet kept the old bounds")
	}
	first := f.page.letterBoxes[0]
	last := f.page.letterBoxes[len(f.page.letterBoxes)-1]
	if mid := (first.X + last.X + last.W) / 2; mid < 799 || mid > 801 {
		t.Errorf("title centred at %v, want 800", mid)
	}
}

func TestListenedAccumulatesWhilePlaying(t *testing.T) {
	f := newFixture(t, false)
	f.at(time.Second)
	f.music.playing = true
	f.at(3 * time.Second)
	f.music.playing = false
	f.at(5 * time.Second)
	if f.page.listened != 2*time.Second {
		t.Errorf("listened = %v, want 2s", f.page.listened)
	}
	if got := formatDuration(f.page.listened); got != "00:02" {
		t.Errorf("formatDuration = %q", got)
	}
}

func TestCloseUnsubscribes(t *testing.T) {
	f := newFixture(t, false)
	f.page.close()
	for _, k := range []events.Kind{events.PointerMove, events.Click, events.Resize} {
		if n := f.bus.Len(k); n != 0 {
			t.Errorf("%v has %d handlers after close", k, n)
		}
	}
}

func TestWrapWords(t *testing.T) {
	measure := func(s string) float64 { return 10 * float64(len(s)) }
	tests := []struct {
		words []string
		maxW  float64
		want  [][]int
	}{
		{[]string{"aa", "bbb", "c"}, 60, [][]int{{0, 1}, {2}}},
		{[]string{"aa", "bbb", "c"}, 100, [][]int{{0, 1, 2}}},
		{[]string{"toolongword"}, 20, [][]int{{0}}},
		{nil, 100, nil},
	}
	for _, tt := range tests {
		if got := wrapWords(tt.words, measure, tt.maxW); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("wrapWords(%v, %v) = %v, want %v", tt.words, tt.maxW, got, tt.want)
		}
	}
}

func TestLayoutFitsWindow(t *testing.T) {
	for _, size := range [][2]int{{1024, 768}, {400, 700}} {
		l := layoutFor(size[0], size[1])
		for name, r := range map[string]effects.Rect{
			"join":     l.join,
			"register": l.register,
			"toggle":   l.toggle,
			"modal":    l.modal,
		} {
			if r.X < 0 || r.Y < 0 || r.X+r.W > l.w || r.Y+r.H > l.h {
				t.Errorf("%dx%d: %s %+v leaves the window", size[0], size[1], name, r)
			}
		}
		if !l.modal.Contains(l.modalForm.Center()) || !l.modal.Contains(l.modalClose.Center()) {
			t.Errorf("%dx%d: modal buttons outside the modal", size[0], size[1])
		}
	}
}
